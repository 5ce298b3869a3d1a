package monitor

import (
	"fmt"
	"html/template"
	"math"

	channerics "github.com/niceyeti/channerics/channels"
)

// ValueBarView turns each snapshot into per-state bar updates (height,
// offset, fill) and value labels, addressed to the ids values-bar-N and
// values-label-N: a 1D bar chart, since joint states are not generally laid
// out on an x/y grid. The template it parses holds an empty svg with no
// elements under those ids, and the page script skips updates whose id it
// cannot find.
type ValueBarView struct {
	id       string
	barWidth int
	updates  <-chan []EleUpdate
}

func NewValueBarView(done <-chan struct{}, snapshots <-chan Snapshot) *ValueBarView {
	v := &ValueBarView{id: "values", barWidth: 24}
	v.updates = channerics.Convert(done, snapshots, v.onUpdate)
	return v
}

func (v *ValueBarView) Updates() <-chan []EleUpdate {
	return v.updates
}

func (v *ValueBarView) onUpdate(snap Snapshot) (ops []EleUpdate) {
	minVal, maxVal := math.MaxFloat64, -math.MaxFloat64
	for _, val := range snap.Values {
		minVal = math.Min(minVal, val)
		maxVal = math.Max(maxVal, val)
	}
	spread := maxVal - minVal
	if spread == 0 {
		spread = 1
	}
	for i, val := range snap.Values {
		heightPx := int(100 * (val - minVal) / spread)
		ops = append(ops, EleUpdate{
			EleId: fmt.Sprintf("%s-bar-%d", v.id, i),
			Ops: []Op{
				{Key: "height", Value: fmt.Sprintf("%d", heightPx)},
				{Key: "y", Value: fmt.Sprintf("%d", 100-heightPx)},
				{Key: "fill", Value: fmt.Sprintf("rgb(%d%%,0%%,%d%%)", int(100*(val-minVal)/spread), 100-int(100*(val-minVal)/spread))},
			},
		})
		ops = append(ops, EleUpdate{
			EleId: fmt.Sprintf("%s-label-%d", v.id, i),
			Ops:   []Op{{Key: "textContent", Value: fmt.Sprintf("%.4f", val)}},
		})
	}
	return
}

func (v *ValueBarView) Parse(t *template.Template) (name string, err error) {
	name = v.id
	_, err = t.Funcs(template.FuncMap{
		"mult": func(i, j int) int { return i * j },
	}).Parse(`{{ define "` + name + `" }}
		<div style="padding:10px;">
			<svg width="800" height="120" style="background:#eee;">
				<!-- no bar or label elements are rendered here; updates for values-bar-N and values-label-N find no element -->
			</svg>
		</div>
	{{ end }}`)
	return
}
