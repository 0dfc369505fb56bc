package scene

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/gogpu/swraster"
)

// Stats summarizes one render.
type Stats struct {
	Shapes  int
	Effects int
}

// Size returns the device size of the document drawn at scale.
func (d *Document) Size(scale float64) (int, int) {
	return int(math.Ceil(float64(d.Width) * scale)), int(math.Ceil(float64(d.Height) * scale))
}

// Render draws the document into the target of ctx at the given scale and
// applies its effects. A target lost during the render is reported as the
// returned error; the pixels drawn so far stay in the target.
func (d *Document) Render(ctx *swraster.Context, scale float64, log *slog.Logger) (Stats, error) {
	if log == nil {
		log = swraster.Logger()
	}
	target := ctx.Target()

	var st Stats
	bg := uint32(0)
	if d.Background != "" {
		c, err := ParseColor(d.Background)
		if err != nil {
			return st, fmt.Errorf("background: %w", err)
		}
		bg = c
	}
	target.Clear(bg)

	for i := range d.Shapes {
		s := &d.Shapes[i]
		if err := s.draw(ctx, scale); err != nil {
			return st, fmt.Errorf("shapes.%d: %w", i, err)
		}
		if target.Lost() {
			return st, target.Err()
		}
		st.Shapes++
	}

	if len(d.Effects) > 0 {
		filters := make([]swraster.Filter, len(d.Effects))
		for i := range d.Effects {
			filters[i] = d.Effects[i].Filter()
		}
		if err := ctx.FilterTarget(swraster.NewFilterChain(filters...)); err != nil {
			return st, err
		}
		st.Effects = len(filters)
	}
	log.Debug("scene rendered", "shapes", st.Shapes, "effects", st.Effects, "strategy", ctx.Strategy().String())
	return st, nil
}

func (s *Shape) draw(ctx *swraster.Context, scale float64) error {
	p, err := s.Path()
	if err != nil {
		return err
	}
	stroke, err := s.basicStroke()
	if err != nil {
		return err
	}
	paint, err := s.Paint.Build()
	if err != nil {
		return err
	}
	rule := swraster.CompositeSrcOver
	if s.Composite != "" {
		rule, _ = swraster.ParseCompositeRule(s.Composite)
	}
	ctx.SetCompositeRule(rule)
	ctx.FillShape(p, stroke, s.transform(scale), s.clip(scale, ctx.Target().Bounds()), paint)
	return nil
}
