// Package progress animates a percentage gauge.
//
// An Indicator owns one gauge. It writes three outputs per frame to an
// injected RenderTarget: the ring's arc offset, the label text and the level
// class. Frames come from a host through the Scheduler interface; every
// SetProgress bumps a generation token so frames from a superseded run are
// ignored.
//
// # Usage
//
//	host := progress.NewTickerHost(60, logger)
//	defer host.Close()
//
//	slot := host.Slot()
//	ind := progress.New(target, slot, progress.Options{Duration: time.Second})
//	slot.Bind(ind)
//
//	ind.SetProgress(73)
//	host.WaitIdle(ctx)
//
// # Levels
//
//	low       < 40
//	medium    [40, 70)
//	high      [70, 100)
//	complete  100
package progress
