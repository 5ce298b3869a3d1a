package monitor

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	channerics "github.com/niceyeti/channerics/channels"
)

// Monitor serves a single live page showing the progress of one running
// solve. It's a development aid, not a production dashboard: no auth, no
// history beyond the last snapshot. Every websocket connection reads from
// the same aggregated update channel, so each batch reaches only one of
// them; with several clients connected, each sees part of the stream.
type Monitor struct {
	addr    string
	views   []View
	updates <-chan []EleUpdate
}

// New builds a monitor over the given snapshot stream. ctx.Done() tears
// down the view pipeline; snapshots is typically Channel.Updates(). The
// snapshot stream is broadcast to the monitor's two fixed views (residual
// and value bars); there is no general view-builder indirection since the
// monitor's view set never varies.
func New(ctx context.Context, addr string, snapshots <-chan Snapshot) (*Monitor, error) {
	done := ctx.Done()
	broadcast := channerics.Broadcast(done, snapshots, 2)

	views := []View{
		NewResidualView(done, broadcast[0]),
		NewValueBarView(done, broadcast[1]),
	}

	return &Monitor{
		addr:    addr,
		views:   views,
		updates: fanIn(done, views),
	}, nil
}

// Serve blocks, serving the index page and its websocket feed.
func (m *Monitor) Serve() error {
	r := mux.NewRouter()
	r.HandleFunc("/", m.serveIndex).Methods(http.MethodGet)
	r.HandleFunc("/ws", m.serveWebsocket)

	if err := http.ListenAndServe(m.addr, r); err != nil {
		return fmt.Errorf("monitor: serve: %w", err)
	}
	return nil
}

func (m *Monitor) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	cli, err := newWSClient(m.updates, w, r)
	if err != nil {
		return
	}
	_ = cli.sync()
}

func (m *Monitor) serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	if err := renderTemplate(w, m.views); err != nil {
		_, _ = w.Write([]byte(err.Error()))
	}
}

func renderTemplate(w io.Writer, views []View) error {
	t := template.New("index.html")
	var names []string
	for _, v := range views {
		name, err := v.Parse(t)
		if err != nil {
			return err
		}
		names = append(names, name)
	}

	var body string
	for _, n := range names {
		body += `{{ template "` + n + `" . }}`
	}

	const bootstrap = `<!DOCTYPE html><html><head><link rel="icon" href="data:,"><script>
		const ws = new WebSocket("ws://" + location.host + "/ws");
		ws.onmessage = function(event) {
			const items = JSON.parse(event.data);
			for (const update of items) {
				const ele = document.getElementById(update.EleId);
				if (!ele) { continue; }
				for (const op of update.Ops) {
					if (op.Key === "textContent") {
						ele.textContent = op.Value;
					} else {
						ele.setAttribute(op.Key, op.Value);
					}
				}
			}
		};
	</script></head><body>`

	if _, err := t.Parse(`{{ define "mainpage" }}` + bootstrap + body + `</body></html>{{ end }}`); err != nil {
		return err
	}
	return t.ExecuteTemplate(w, "mainpage", nil)
}

// fanIn merges every view's ele-update channel into one, throttled to avoid
// saturating slow websocket clients.
func fanIn(done <-chan struct{}, views []View) <-chan []EleUpdate {
	inputs := make([]<-chan []EleUpdate, len(views))
	for i, v := range views {
		inputs[i] = v.Updates()
	}
	return batchify(done, channerics.Merge(done, inputs...), 20*time.Millisecond)
}

// batchify coalesces updates arriving within rate, keeping only the latest
// op set per element id.
func batchify(done <-chan struct{}, source <-chan []EleUpdate, rate time.Duration) <-chan []EleUpdate {
	out := make(chan []EleUpdate)
	go func() {
		defer close(out)
		data := map[string]EleUpdate{}
		last := time.Now()
		for updates := range channerics.OrDone(done, source) {
			for _, u := range updates {
				data[u.EleId] = u
			}
			if time.Since(last) > rate && len(updates) > 0 {
				batch := make([]EleUpdate, 0, len(data))
				for _, u := range data {
					batch = append(batch, u)
				}
				select {
				case out <- batch:
					data = map[string]EleUpdate{}
					last = time.Now()
				case <-done:
					return
				}
			}
		}
	}()
	return out
}
