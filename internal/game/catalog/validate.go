package catalog

import "fmt"

func (c *Catalog) validate() error {
	if len(c.Tiles) == 0 {
		return fmt.Errorf("catalog: no tile types")
	}
	for i, t := range c.Tiles {
		if t.Type != i {
			return fmt.Errorf("catalog: tile at index %d declares type %d", i, t.Type)
		}
		if err := c.checkResource(t.Resource); err != nil {
			return fmt.Errorf("catalog: tile %d: %w", i, err)
		}
	}
	for i, b := range c.Buildings {
		if b.Type != i {
			return fmt.Errorf("catalog: building at index %d declares type %d", i, b.Type)
		}
		if b.Width <= 0 || b.Height <= 0 || b.Hitpoints <= 0 {
			return fmt.Errorf("catalog: building %d needs positive width/height/hitpoints", i)
		}
		if b.Construction.StepProgress <= 0 {
			return fmt.Errorf("catalog: building %d needs positive construction.step_progress", i)
		}
		if err := c.checkResource(b.Resource); err != nil {
			return fmt.Errorf("catalog: building %d: %w", i, err)
		}
	}
	for i, u := range c.Units {
		if u.Type != i {
			return fmt.Errorf("catalog: unit at index %d declares type %d", i, u.Type)
		}
		if u.Hitpoints <= 0 || u.Speed <= 0 || u.TurnSpeed <= 0 {
			return fmt.Errorf("catalog: unit %d needs positive hitpoints/speed/turn_speed", i)
		}
		if u.Construction.StepProgress <= 0 {
			return fmt.Errorf("catalog: unit %d needs positive construction.step_progress", i)
		}
		if err := c.checkResource(u.Resource); err != nil {
			return fmt.Errorf("catalog: unit %d: %w", i, err)
		}
	}
	return nil
}

func (c *Catalog) checkResource(r *int) error {
	if r == nil {
		return nil
	}
	if *r < 0 || *r >= len(c.Resources) {
		return fmt.Errorf("unknown resource %d", *r)
	}
	return nil
}
