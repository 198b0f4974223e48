package replay

import (
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	rewardColor   = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	fatalColor    = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	degradedColor = color.RGBA{R: 255, G: 127, B: 14, A: 255}
)

// PlotRewards renders the reward per step as a line chart, marking fatal and
// degraded steps. The image format follows the file extension of path.
func PlotRewards(r Report, path string) error {
	if len(r.Steps) == 0 {
		return errors.New("replay: cannot plot an empty report")
	}

	p := plot.New()
	p.Title.Text = "Reward per step"
	if r.TrackID != "" {
		p.Title.Text = fmt.Sprintf("Reward per step (%s)", r.TrackID)
	}
	p.X.Label.Text = "Step"
	p.Y.Label.Text = "Reward"

	pts := make(plotter.XYs, 0, len(r.Steps))
	var fatal, degraded plotter.XYs
	for _, s := range r.Steps {
		xy := plotter.XY{X: float64(s.Index), Y: s.Result.Reward}
		pts = append(pts, xy)
		switch {
		case s.Result.Degraded():
			degraded = append(degraded, xy)
		case s.Result.Fatal:
			fatal = append(fatal, xy)
		}
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Color = rewardColor
	line.Width = vg.Points(1)
	p.Add(line)
	p.Legend.Add("reward", line)

	if err := addMarkers(p, fatal, fatalColor, "fatal"); err != nil {
		return err
	}
	if err := addMarkers(p, degraded, degradedColor, "invalid"); err != nil {
		return err
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	if err := p.Save(14*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("replay: cannot save plot %s: %w", path, err)
	}
	return nil
}

func addMarkers(p *plot.Plot, pts plotter.XYs, c color.Color, label string) error {
	if len(pts) == 0 {
		return nil
	}
	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	sc.GlyphStyle.Color = c
	sc.GlyphStyle.Shape = draw.CrossGlyph{}
	sc.GlyphStyle.Radius = vg.Points(3)
	p.Add(sc)
	p.Legend.Add(label, sc)
	return nil
}
