package main

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"time"

	"golang.org/x/image/draw"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/swraster"
	"github.com/gogpu/swraster/backend"
	"github.com/gogpu/swraster/internal/config"
	"github.com/gogpu/swraster/internal/scene"
)

// renderer renders the scene file to PNG. The device is shared between
// renders so that watch mode keeps one memory budget.
type renderer struct {
	flags  cliFlags
	cfg    config.Config
	log    *slog.Logger
	out    *message.Printer
	stdout io.Writer
	dev    *backend.HostDevice
}

func newRenderer(f cliFlags, cfg config.Config, log *slog.Logger, stdout io.Writer) *renderer {
	return &renderer{
		flags:  f,
		cfg:    cfg,
		log:    log,
		out:    message.NewPrinter(language.English),
		stdout: stdout,
		dev:    backend.NewHostDevice(backend.WithName("swraster-cli"), backend.WithMemoryBudget(cfg.MemoryBudget)),
	}
}

func (r *renderer) render() error {
	start := time.Now()
	doc, err := scene.Load(r.flags.scene)
	if err != nil {
		return err
	}
	strategy, ok := swraster.ParseStrategy(r.cfg.Strategy)
	if !ok {
		return fmt.Errorf("unknown strategy %q", r.cfg.Strategy)
	}

	w, h := doc.Size(r.cfg.Scale)
	target, err := swraster.NewRenderTarget(w, h)
	if err != nil {
		return err
	}
	ctx := swraster.NewContext(target,
		swraster.WithStrategy(strategy),
		swraster.WithDevice(r.dev),
		swraster.WithTolerance(r.cfg.Tolerance),
		swraster.WithRampCacheSize(r.cfg.RampCacheSize),
		swraster.WithLogger(r.log),
	)
	defer ctx.Close()

	st, err := doc.Render(ctx, r.cfg.Scale, r.log)
	if err != nil {
		return err
	}
	img := target.Buffer().ToNRGBA()
	if err := writePNG(r.flags.out, img); err != nil {
		return err
	}
	if r.flags.thumb != "" {
		if err := writePNG(r.flags.thumb, thumbnail(img, r.flags.thumbWidth)); err != nil {
			return err
		}
	}

	ss := ctx.ScratchStats()
	r.log.Info("rendered", "scene", r.flags.scene, "out", r.flags.out, "strategy", strategy.String(),
		"elapsed", time.Since(start))
	r.out.Fprintf(r.stdout, "%s: %d×%d, %d pixels, %d shapes, %d effects, %d scratch allocations\n",
		r.flags.out, w, h, w*h, st.Shapes, st.Effects, ss.Allocations)
	return nil
}

// thumbnail scales img to width pixels wide, keeping the aspect ratio.
func thumbnail(img image.Image, width int) image.Image {
	b := img.Bounds()
	if width <= 0 || b.Dx() == 0 {
		return img
	}
	height := max(1, b.Dy()*width/b.Dx())
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
