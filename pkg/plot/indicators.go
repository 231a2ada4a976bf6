package plot

import (
	"github.com/raykavin/chartscript/pkg/core"
	"github.com/raykavin/chartscript/pkg/script"
)

// AddIndicator adds an indicator as a script. Overlay indicators draw on the
// main pane, the others on a pane of their own.
func (c *Chart) AddIndicator(indicator Indicator) (*script.Instance, error) {
	c.Lock()
	defer c.Unlock()

	role := core.RoleSecondary
	if indicator.Overlay() {
		role = core.RoleMain
	}

	inst, err := c.addScript(script.Config{
		Name:      indicator.Name(),
		Role:      role,
		Precision: c.pricePrecision(),
		Draw:      indicator.Draw,
	})
	if err != nil {
		return nil, err
	}

	c.indicators[inst.ID] = indicator
	if c.dataframe != nil {
		indicator.Load(c.dataframe)
	}
	return inst, nil
}

// reload recomputes every indicator against the current data
func (c *Chart) reload() {
	if c.dataframe == nil {
		return
	}
	for _, indicator := range c.indicators {
		if c.dataframe.Len() < indicator.Warmup() {
			c.log.WithField("indicator", indicator.Name()).Trace("indicator warming up")
		}
		indicator.Load(c.dataframe)
	}
}
