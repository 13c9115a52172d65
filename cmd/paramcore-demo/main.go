// Command paramcore-demo drives a WrappedKernel against a real audio
// device via portaudio, to prove the parameter-sync core against a genuine
// real-time callback instead of a simulated one. It is a reference harness,
// not part of the core library: see SPEC_FULL.md's DOMAIN STACK section.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gordonklaus/portaudio"
	"github.com/lestrrat-go/strftime"
	"github.com/spf13/pflag"

	"github.com/russellmcc/brinicle/descriptor"
	"github.com/russellmcc/brinicle/gainkernel"
	"github.com/russellmcc/brinicle/kernel"
	"github.com/russellmcc/brinicle/wrapped"
)

func main() {
	var (
		configPath = pflag.StringP("config", "c", "", "path to a session YAML config")
		sampleRate = pflag.Float64P("sample-rate", "r", 48000, "sample rate in Hz")
		seconds    = pflag.IntP("seconds", "s", 10, "how long to run before exiting")
	)
	pflag.Parse()

	cfg, err := loadSessionConfig(*configPath)
	if err != nil {
		log.Fatal("failed to load config", "err", err)
	}

	logFileName, err := strftime.Format("%Y-%m-%dT%H-%M-%S.log", time.Now())
	if err != nil {
		log.Fatal("failed to format log file name", "err", err)
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: fmt.Sprintf("%s[%s]", cfg.SessionName, logFileName),
	})

	if err := portaudio.Initialize(); err != nil {
		logger.Fatal("portaudio init failed", "err", err)
	}
	defer portaudio.Terminate()

	factory := gainkernel.Factory{}
	k, err := factory.MakeKernel(1, 1, *sampleRate)
	if err != nil {
		logger.Fatal("kernel construction failed", "err", err)
	}

	host := &loggingHost{logger: logger}
	w := wrapped.NewWrappedKernel(k, gainkernel.Descriptors(), host)

	w.SetParameter(gainkernel.AddressGain, cfg.GainDB)
	w.SetParameter(gainkernel.AddressBypass, cfg.bypassValue())
	w.SetParameter(gainkernel.AddressCurve, cfg.curveIndex())
	w.SyncFromDSPThread() // publish the initial direct writes into the mirror
	w.SyncFromUIThread(func(descriptor.Address, float32) {})

	stop := make(chan struct{})
	go runFakeUIThread(w, logger, stop)

	stream, err := portaudio.OpenDefaultStream(1, 1, *sampleRate, 0, func(in, out []float32) {
		audio := kernel.Deinterleaved{
			ChannelCount: 1,
			FrameCount:   len(out),
			Data:         [][]float32{out},
		}
		copy(out, in)

		w.Process(audio, kernel.SliceEventGenerator(nil))
		w.SyncFromDSPThread()
	})
	if err != nil {
		logger.Fatal("failed to open audio stream", "err", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		logger.Fatal("failed to start audio stream", "err", err)
	}
	defer stream.Stop()

	logger.Info("running", "seconds", *seconds, "latency_samples", w.GetLatency())
	time.Sleep(time.Duration(*seconds) * time.Second)
	close(stop)
}

// runFakeUIThread simulates a user dragging the gain control every couple
// of seconds, exercising the grab -> set -> release gesture bracket and the
// UI-side sync's change notifications.
func runFakeUIThread(w *wrapped.WrappedKernel, logger *log.Logger, stop <-chan struct{}) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	ui := w.UIParameterSet()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			grabbed := ui.GrabParameter(gainkernel.AddressGain)
			newGain := float32(rand.Intn(72) - 60) // within [-60, 12)
			grabbed.SetParameter(newGain)
			grabbed.Release()

			w.SyncFromUIThread(func(addr descriptor.Address, v float32) {
				logger.Info("ui observed change", "address", addr, "value", v)
			})
		}
	}
}
