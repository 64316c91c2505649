package life

import (
	"github.com/Mstrdav/cellular/internal/core"
	"github.com/Mstrdav/cellular/internal/lattice"
)

// Parameters reports live statistics and settings for the HUD.
func (l *Life) Parameters() core.ParameterSnapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	cx, cy := l.view.Center()
	region := l.view.VisibleRegion()
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Simulation",
			Params: []core.Parameter{
				core.TextParam("rule", "Rule", l.cfg.Rule.String()),
				core.IntParam("generation", "Generation", int64(l.generation)),
				core.IntParam("population", "Population", int64(l.store.Population())),
				core.IntParam("stored", "Stored cells", int64(l.store.Len())),
				core.BoolParam("running", "Running", l.anim.Running()),
				core.IntParam("tps", "Steps/s", int64(l.anim.TPS())),
				core.IntParam("margin", "Step margin", int64(l.cfg.Margin)),
				core.IntParam("workers", "Workers", int64(l.cfg.Workers)),
			},
		},
		{
			Name: "Fill",
			Params: []core.Parameter{
				core.TextParam("init", "Init policy", l.cfg.Init.String()),
				core.TextParam("extend", "Extend policy", l.cfg.Extend.String()),
				core.FloatParam("extend_p", "Extend probability", l.cfg.Extend.P),
			},
		},
		{
			Name: "View",
			Params: []core.Parameter{
				core.FloatParam("scale", "Cell size", l.view.Scale()),
				core.FloatParam("cx", "Center x", cx),
				core.FloatParam("cy", "Center y", cy),
				core.IntParam("visible", "Visible cells", int64(region.Area())),
			},
		},
	}}
}

// ParameterControls lists the values adjustable from the HUD.
func (l *Life) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "tps", Label: "Steps/s", Type: core.ParamTypeInt, Step: 5, Min: 0, Max: 240, HasMin: true, HasMax: true},
		{Key: "margin", Label: "Step margin", Type: core.ParamTypeInt, Step: 1, Min: 0, Max: 16, HasMin: true, HasMax: true},
		{Key: "workers", Label: "Workers", Type: core.ParamTypeInt, Step: 1, Min: 1, Max: 64, HasMin: true, HasMax: true},
		{Key: "scale", Label: "Cell size", Type: core.ParamTypeFloat, Step: 1, Min: 6, Max: 100, HasMin: true, HasMax: true},
		{Key: "extend_p", Label: "Extend probability", Type: core.ParamTypeFloat, Step: 0.01, Min: 0, Max: 1, HasMin: true, HasMax: true},
	}
}

// SetIntParameter updates an integer control. It reports whether key is known.
func (l *Life) SetIntParameter(key string, value int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch key {
	case "tps":
		l.cfg.TPS = max(value, 0)
		l.anim.SetTPS(l.cfg.TPS)
	case "margin":
		l.cfg.Margin = max(value, 0)
	case "workers":
		l.cfg.Workers = max(value, 1)
	default:
		return false
	}
	return true
}

// SetFloatParameter updates a floating point control. Setting extend_p
// switches the Extend policy to Random.
func (l *Life) SetFloatParameter(key string, value float64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch key {
	case "scale":
		l.view.SetScale(value)
		l.extendLocked()
	case "extend_p":
		l.cfg.Extend = lattice.RandomPolicy(value)
	default:
		return false
	}
	return true
}
