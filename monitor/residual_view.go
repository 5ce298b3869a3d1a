package monitor

import (
	"fmt"
	"html/template"

	channerics "github.com/niceyeti/channerics/channels"
)

// ResidualView renders the current iteration count and max residual as a
// pair of text nodes, updated live over the websocket.
type ResidualView struct {
	id      string
	updates <-chan []EleUpdate
}

// NewResidualView builds the view; done closes its update channel.
func NewResidualView(done <-chan struct{}, snapshots <-chan Snapshot) *ResidualView {
	v := &ResidualView{id: "residual"}
	v.updates = channerics.Convert(done, snapshots, v.onUpdate)
	return v
}

func (v *ResidualView) Updates() <-chan []EleUpdate {
	return v.updates
}

func (v *ResidualView) onUpdate(snap Snapshot) []EleUpdate {
	return []EleUpdate{
		{EleId: v.id + "-iteration", Ops: []Op{{Key: "textContent", Value: fmt.Sprintf("%d", snap.Iteration)}}},
		{EleId: v.id + "-residual", Ops: []Op{{Key: "textContent", Value: fmt.Sprintf("%.10f", snap.MaxResidual)}}},
	}
}

func (v *ResidualView) Parse(t *template.Template) (name string, err error) {
	name = v.id
	_, err = t.Parse(`{{ define "` + name + `" }}
		<div style="font-family:monospace;padding:10px;">
			iteration <span id="` + v.id + `-iteration">0</span>,
			max residual <span id="` + v.id + `-residual">0</span>
		</div>
	{{ end }}`)
	return
}
