package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/orbitfield/internal/config"
	"github.com/san-kum/orbitfield/internal/export"
	"github.com/san-kum/orbitfield/internal/field"
	"github.com/san-kum/orbitfield/internal/frame"
	"github.com/san-kum/orbitfield/internal/metrics"
)

type viewportFlags struct {
	width, height, dpr float64
}

func (v *viewportFlags) register(cmd *cobra.Command, w, h float64) {
	cmd.Flags().Float64Var(&v.width, "width", w, "viewport width in logical pixels")
	cmd.Flags().Float64Var(&v.height, "height", h, "viewport height in logical pixels")
	cmd.Flags().Float64Var(&v.dpr, "dpr", 1, "device pixel ratio")
}

func (v viewportFlags) viewport() frame.Viewport {
	return frame.Viewport{Width: v.width, Height: v.height, DPR: v.dpr}
}

// renderHeadless runs frames on a headless host and reports what it saw.
func renderHeadless(cfg *config.Config, vp frame.Viewport, surface frame.Surface, frames int) (*metrics.Report, error) {
	tuning, err := cfg.Tuning()
	if err != nil {
		return nil, err
	}
	s := cfg.Seed
	if s == 0 {
		s = time.Now().UnixNano()
	}

	host := export.NewHeadless(vp, surface)
	set := metrics.Default()
	sched := frame.New(host, host.Clock, tuning, rand.New(rand.NewSource(s)))
	sched.SetLogger(logger)
	sched.AddObserver(set)
	var particles int
	sched.AddObserver(frame.ObserverFunc(func(info frame.FrameInfo) { particles = len(info.Particles) }))
	if err := sched.Start(); err != nil {
		return nil, err
	}
	defer sched.Stop()

	ran := host.Advance(frames, tuning.FPS)
	if err := sched.Err(); err != nil {
		return nil, err
	}
	logger.Info("rendered headless frames",
		zap.Int("frames", ran),
		zap.Int64("seed", s),
		zap.Float64("energy", set.Snapshot()["kinetic_energy"]))

	r := metrics.NewReport(set)
	r.Preset, r.Seed, r.Frames, r.Particles = preset, s, ran, particles
	r.Width, r.Height = vp.Width, vp.Height
	return r, nil
}

func writeReport(cmd *cobra.Command, r *metrics.Report) error {
	path, _ := cmd.Flags().GetString("report")
	if path == "" {
		return nil
	}
	return r.WriteFile(path)
}

func newSnapshotCmd() *cobra.Command {
	var (
		vp      viewportFlags
		outs    []string
		frames  int
		caption string
	)
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "render a still frame to svg and/or png",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			var surfaces []frame.Surface
			var writers []func() error
			for _, out := range outs {
				switch strings.ToLower(filepath.Ext(out)) {
				case ".svg":
					svg := export.NewSVG(export.DefaultBackground)
					surfaces = append(surfaces, svg)
					writers = append(writers, func() error { return writeFile(out, func(w io.Writer) error { _, err := svg.WriteTo(w); return err }) })
				case ".png":
					r := export.NewRaster(export.DefaultBackground)
					surfaces = append(surfaces, r)
					writers = append(writers, func() error {
						r.Caption(caption, field.Opaque(148, 163, 184))
						return writeFile(out, r.WritePNG)
					})
				default:
					return fmt.Errorf("unsupported output %q (want .svg or .png)", out)
				}
			}

			report, err := renderHeadless(cfg, vp.viewport(), frame.Multi(surfaces...), frames)
			if err != nil {
				return err
			}
			if err := writeReport(cmd, report); err != nil {
				return err
			}
			for _, w := range writers {
				if err := w(); err != nil {
					return err
				}
			}
			for _, out := range outs {
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			}
			return nil
		},
	}
	vp.register(cmd, 1024, 768)
	cmd.Flags().StringSliceVarP(&outs, "out", "o", []string{"orbitfield.png"}, "output files (.svg, .png)")
	cmd.Flags().IntVar(&frames, "frames", 180, "frames to simulate before capturing")
	cmd.Flags().StringVar(&caption, "caption", "", "text stamped on png output")
	cmd.Flags().String("report", "", "write a json metrics report to this file")
	return cmd
}

func newRecordCmd() *cobra.Command {
	var (
		vp     viewportFlags
		out    string
		frames int
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "record",
		Short: "record an animated gif",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			rec := export.NewRecorder(export.NewRaster(export.DefaultBackground), limit)
			report, err := renderHeadless(cfg, vp.viewport(), rec, frames)
			if err != nil {
				return err
			}
			if err := writeReport(cmd, report); err != nil {
				return err
			}
			delay := max(100/cfg.Frame.FPS, 1)
			if err := writeFile(out, func(w io.Writer) error { return rec.WriteGIF(w, delay) }); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d frames)\n", out, len(rec.Frames))
			return nil
		},
	}
	vp.register(cmd, 480, 360)
	cmd.Flags().StringVarP(&out, "out", "o", "orbitfield.gif", "output file")
	cmd.Flags().IntVar(&frames, "frames", 180, "frames to record")
	cmd.Flags().IntVar(&limit, "limit", 0, "keep only the last N frames (0 keeps all)")
	cmd.Flags().String("report", "", "write a json metrics report to this file")
	return cmd
}

// timingSurface discards draw calls.
type timingSurface struct{}

func (timingSurface) Resize(int, int, float64)                          {}
func (timingSurface) Clear()                                            {}
func (timingSurface) FillCircle(float64, float64, float64, field.Color) {}
func (timingSurface) StrokeLine(_, _, _, _, _ float64, _ field.Color)   {}

func newBenchCmd() *cobra.Command {
	var (
		particles int
		frames    int
	)
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "time frames without drawing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			cfg.Field.SmallCount, cfg.Field.LargeCount = particles, particles
			cfg.Frame.FadeIn = 0

			var times []float64
			var last time.Time
			timer := frame.ObserverFunc(func(info frame.FrameInfo) {
				now := time.Now()
				if !last.IsZero() {
					times = append(times, float64(now.Sub(last).Microseconds())/1000)
				}
				last = now
			})

			tuning, err := cfg.Tuning()
			if err != nil {
				return err
			}
			host := export.NewHeadless(frame.Viewport{Width: 1920, Height: 1080, DPR: 1}, timingSurface{})
			sched := frame.New(host, host.Clock, tuning, rand.New(rand.NewSource(cfg.Seed)))
			sched.AddObserver(timer)
			if err := sched.Start(); err != nil {
				return err
			}
			start := time.Now()
			ran := host.Advance(frames, tuning.FPS)
			elapsed := time.Since(start)
			sched.Stop()

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%d particles, %d frames in %v (%.3f ms/frame)\n",
				particles, ran, elapsed.Round(time.Millisecond), float64(elapsed.Microseconds())/1000/float64(max(ran, 1)))
			if len(times) > 1 {
				fmt.Fprintln(w, asciigraph.Plot(times, asciigraph.Height(8), asciigraph.Width(60), asciigraph.Caption("ms per frame")))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&particles, "particles", field.LargeCount, "particle count")
	cmd.Flags().IntVar(&frames, "frames", 300, "frames to run")
	return cmd
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
