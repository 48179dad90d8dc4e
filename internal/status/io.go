package status

import "github.com/roach88/mksync/internal/wire"

// Tool is one row of the tool table.
type Tool struct {
	Index       int32    `json:"index"`
	ID          int32    `json:"id"`
	Diameter    float64  `json:"diameter"`
	FrontAngle  float64  `json:"frontangle"`
	BackAngle   float64  `json:"backangle"`
	Orientation int32    `json:"orientation"`
	Comment     string   `json:"comment"`
	Pocket      int32    `json:"pocket"`
	Offset      Position `json:"offset"`
}

func (t *Tool) key() int32 { return t.Index }

func (t *Tool) merge(c *changes, src *wire.EmcToolData) {
	mergeValue(c, "id", &t.ID, src.ID)
	mergeValue(c, "diameter", &t.Diameter, src.Diameter)
	mergeValue(c, "frontangle", &t.FrontAngle, src.FrontAngle)
	mergeValue(c, "backangle", &t.BackAngle, src.BackAngle)
	mergeValue(c, "orientation", &t.Orientation, src.Orientation)
	mergeValue(c, "comment", &t.Comment, src.Comment)
	mergeValue(c, "pocket", &t.Pocket, src.Pocket)
	mergePosition(c, "offset", &t.Offset, src.Offset)
}

func (t *Tool) lookup(p []string) (any, bool) {
	if len(p) > 0 && p[0] == "offset" {
		return t.Offset.lookup(p[1:])
	}
	return lookupFields(p, *t, map[string]any{
		"index":       t.Index,
		"id":          t.ID,
		"diameter":    t.Diameter,
		"frontangle":  t.FrontAngle,
		"backangle":   t.BackAngle,
		"orientation": t.Orientation,
		"comment":     t.Comment,
		"pocket":      t.Pocket,
	})
}

type Tooling struct {
	Offset Position `json:"offset"`
	Table  []*Tool  `json:"table"`
	Nr     int32    `json:"nr"`
}

// IO mirrors coolant, lubrication, estop and tooling state.
type IO struct {
	Estop         bool    `json:"estop"`
	Flood         bool    `json:"flood"`
	Lube          bool    `json:"lube"`
	LubeLevel     bool    `json:"lube_level"`
	Mist          bool    `json:"mist"`
	PocketPrepped int32   `json:"pocket_prepped"`
	Tool          Tooling `json:"tool"`
}

func newIO(src *wire.EmcStatusIO) *IO {
	io := &IO{Tool: Tooling{Table: []*Tool{}}}
	for _, t := range src.ToolTable {
		io.Tool.Table = append(io.Tool.Table, &Tool{Index: deref(t.Index)})
	}
	return io
}

func (io *IO) merge(src *wire.EmcStatusIO) []string {
	c := &changes{}
	mergeValue(c, "estop", &io.Estop, src.Estop)
	mergeValue(c, "flood", &io.Flood, src.Flood)
	mergeValue(c, "lube", &io.Lube, src.Lube)
	mergeValue(c, "lube_level", &io.LubeLevel, src.LubeLevel)
	mergeValue(c, "mist", &io.Mist, src.Mist)
	mergeValue(c, "pocket_prepped", &io.PocketPrepped, src.PocketPrepped)
	mergePosition(c, "tool.offset", &io.Tool.Offset, src.ToolOffset)
	mergeValue(c, "tool.nr", &io.Tool.Nr, src.ToolInSpindle)

	for _, t := range io.Tool.Table {
		for _, in := range src.ToolTable {
			if deref(in.Index) == t.Index {
				sub := c.sub("tool.table." + itoa(t.Index))
				t.merge(sub, in)
				c.absorb(sub)
			}
		}
	}
	return c.paths
}

func (io *IO) full(src *wire.EmcStatusIO) []string {
	c := &changes{paths: io.merge(src)}
	c.ensure("tool.table")
	return c.paths
}

// ToolByID finds a tool table row by tool number.
func (io *IO) ToolByID(id int32) (*Tool, bool) {
	for _, t := range io.Tool.Table {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}

func (io *IO) lookup(p []string) (any, bool) {
	if len(p) == 0 {
		return *io, true
	}
	if p[0] == "tool" {
		rest := p[1:]
		if len(rest) == 0 {
			return io.Tool, true
		}
		switch rest[0] {
		case "offset":
			return io.Tool.Offset.lookup(rest[1:])
		case "table":
			return lookupIndexed(io.Tool.Table, rest[1:])
		case "nr":
			return leaf(io.Tool.Nr, rest[1:])
		}
		return nil, false
	}
	return lookupFields(p, *io, map[string]any{
		"estop":          io.Estop,
		"flood":          io.Flood,
		"lube":           io.Lube,
		"lube_level":     io.LubeLevel,
		"mist":           io.Mist,
		"pocket_prepped": io.PocketPrepped,
	})
}
