/*
   pulsecore, a streaming OOK/FSK pulse-extraction core for sub-GHz ISM
   band sensor decoders.
   Copyright (C) 2015  Douglas Hall

   This program is free software: you can redistribute it and/or modify
   it under the terms of the GNU General Public License as published by
   the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   This program is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
   GNU General Public License for more details.

   You should have received a copy of the GNU General Public License
   along with this program.  If not, see <http://www.gnu.org/licenses/>.
*/

// Command pulsedetect replays a captured envelope/FM stream, or a raw IQ
// capture, through a pulsecore session and reports every packet the
// detector and analyzer find.
package main

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"

	"github.com/klauspost/compress/gzip"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"

	"github.com/bemasher/pulsecore/config"
	"github.com/bemasher/pulsecore/dump"
	"github.com/bemasher/pulsecore/frontend"
	"github.com/bemasher/pulsecore/pulse"
	"github.com/bemasher/pulsecore/session"
)

var (
	configPath   = pflag.String("config", "", "YAML configuration file (overrides defaults)")
	envelopePath = pflag.String("envelope-file", "", "raw little-endian int16 AM envelope samples")
	fmPath       = pflag.String("fm-file", "", "raw little-endian int16 FM discriminator samples")
	iqPath       = pflag.String("iq-file", "", "raw interleaved-byte IQ capture (alternative to envelope/fm files)")
	chunkSize    = pflag.Int("chunk-size", 16384, "samples per Process call")
	sampleRate   = pflag.Uint32("rate", 0, "sample rate in Hz, overrides the config file")
	levelLimit   = pflag.Int16("level-limit", 0, "manual OOK threshold, 0 for adaptive")
	metricsAddr  = pflag.String("metrics-addr", "", "address to serve /metrics on, empty to disable")
	rawDumpPath  = pflag.String("raw-dump", "", "path to write a raw pulse bitmask dump")
	vcdDumpPath  = pflag.String("vcd-dump", "", "path to write a VCD trace")
	analyze      = pflag.Bool("analyze", true, "print an analyzer report for every completed packet")
)

func main() {
	pflag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "pulsedetect:", err)
			os.Exit(1)
		}
	}
	if *sampleRate != 0 {
		cfg.SampleRate = *sampleRate
	}
	if *levelLimit != 0 {
		cfg.LevelLimit = *levelLimit
	}
	if *metricsAddr != "" {
		cfg.MetricsAddr = *metricsAddr
	}
	if *rawDumpPath != "" {
		cfg.RawDumpPath = *rawDumpPath
	}
	if *vcdDumpPath != "" {
		cfg.VCDDumpPath = *vcdDumpPath
	}

	envelope, fm, err := loadStreams(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "pulsedetect:", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	sess := session.New(cfg, reg)
	sess.Config.Log(sess.Logger)

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				sess.Logger.Error("metrics server exited", "err", err)
			}
		}()
	}

	rawDumpFile, vcdDumpFile, err := openDumpFiles(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "pulsedetect:", err)
		os.Exit(1)
	}
	if rawDumpFile != nil {
		defer rawDumpFile.Close()
	}
	if vcdDumpFile != nil {
		defer vcdDumpFile.Close()
		if err := dump.WriteVCDHeader(vcdDumpFile, cfg.SampleRate); err != nil {
			fmt.Fprintln(os.Stderr, "pulsedetect:", err)
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	run(ctx, sess, envelope, fm, rawDumpFile, vcdDumpFile)
}

func run(ctx context.Context, sess *session.Session, envelope, fm []int16, rawDumpFile, vcdDumpFile io.Writer) {
	offset := 0
	for offset < len(envelope) {
		select {
		case <-ctx.Done():
			return
		default:
		}

		end := offset + *chunkSize
		if end > len(envelope) {
			end = len(envelope)
		}

		// Process does not advance past a completed packet mid-chunk, so
		// the same chunk must be replayed until it reports NeedMoreData.
		for {
			result := sess.Process(envelope[offset:end], fm[offset:end], uint64(offset))
			switch result {
			case pulse.ResultOOKPacket:
				reportPacket(sess, &sess.Pulses, 0, rawDumpFile, vcdDumpFile)
			case pulse.ResultFSKPacket:
				reportPacket(sess, &sess.FSKPulses, 0x02, rawDumpFile, vcdDumpFile)
			default:
				offset = end
			}
			if result == pulse.ResultNeedMoreData {
				break
			}
		}
	}
}

func reportPacket(sess *session.Session, buf *pulse.Buffer, dumpBits byte, rawDumpFile, vcdDumpFile io.Writer) {
	// Computed before Analyze, which stamps buf's terminal gap with a
	// synthetic reset value: the raw dump window must reflect the packet's
	// real captured span.
	var span int64
	for n := 0; n < buf.NumPulses; n++ {
		span += int64(buf.Pulse[n]) + int64(buf.Gap[n])
	}

	report := pulse.Analyze(buf, sess.Config.SampleRate)
	if *analyze {
		fmt.Println(report)
	}
	if rawDumpFile != nil {
		if err := dump.WriteRaw(rawDumpFile, buf, buf.Offset, int(span), dumpBits); err != nil {
			sess.Logger.Warn("raw dump write failed", "err", err)
		}
	}
	if vcdDumpFile != nil {
		ch := byte('\'')
		if dumpBits != 0 {
			ch = '"'
		}
		if err := dump.WriteVCD(vcdDumpFile, buf, ch, sess.Config.SampleRate); err != nil {
			sess.Logger.Warn("vcd dump write failed", "err", err)
		}
	}
}

func loadStreams(cfg config.Config) (envelope, fm []int16, err error) {
	switch {
	case *iqPath != "":
		raw, err := os.ReadFile(*iqPath)
		if err != nil {
			return nil, nil, fmt.Errorf("reading iq capture: %w", err)
		}
		return frontend.ToPulseStreams(raw)

	case *envelopePath != "" && *fmPath != "":
		envelope, err = readInt16File(*envelopePath)
		if err != nil {
			return nil, nil, fmt.Errorf("reading envelope file: %w", err)
		}
		fm, err = readInt16File(*fmPath)
		if err != nil {
			return nil, nil, fmt.Errorf("reading fm file: %w", err)
		}
		if len(envelope) != len(fm) {
			return nil, nil, fmt.Errorf("envelope and fm files have different sample counts: %d != %d", len(envelope), len(fm))
		}
		return envelope, fm, nil

	default:
		return nil, nil, fmt.Errorf("one of --iq-file or --envelope-file/--fm-file is required")
	}
}

func readInt16File(path string) ([]int16, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(raw)%2 != 0 {
		return nil, fmt.Errorf("%s: odd byte count for int16 samples", path)
	}
	out := make([]int16, len(raw)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
	}
	return out, nil
}

func openDumpFiles(cfg config.Config) (raw, vcd io.WriteCloser, err error) {
	if cfg.RawDumpPath != "" {
		raw, err = openMaybeCompressed(cfg.RawDumpPath, cfg.CompressDumps)
		if err != nil {
			return nil, nil, err
		}
	}
	if cfg.VCDDumpPath != "" {
		vcd, err = openMaybeCompressed(cfg.VCDDumpPath, cfg.CompressDumps)
		if err != nil {
			return nil, nil, err
		}
	}
	return raw, vcd, nil
}

type gzipFile struct {
	f *os.File
	*gzip.Writer
}

func (g *gzipFile) Close() error {
	if err := g.Writer.Close(); err != nil {
		g.f.Close()
		return err
	}
	return g.f.Close()
}

func openMaybeCompressed(path string, compress bool) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if !compress {
		return f, nil
	}
	return &gzipFile{f: f, Writer: gzip.NewWriter(f)}, nil
}
