package main

import (
	"fmt"
	"image"
	"net/http"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/mini-display/minidisplay/internal/display"
	"github.com/mini-display/minidisplay/internal/state"
	"github.com/mini-display/minidisplay/internal/widgets"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type SimFaults struct {
	WeatherFail bool     `json:"weatherFail"`
	FailRoutes  []string `json:"failRoutes"`
	RenderFail  []string `json:"renderFail"`
}

const defaultTempF = 68.0

// Scenarios are named fault/weather presets.
var scenarios = map[string]func(c *SimControl){
	"normal": func(c *SimControl) {},
	"cold":   func(c *SimControl) { c.tempF = 14 },
	"offline": func(c *SimControl) {
		c.faults.WeatherFail = true
		c.faults.FailRoutes = append([]string(nil), c.routes...)
	},
	"broken": func(c *SimControl) { c.faults.RenderFail = widgets.Names() },
}

type SimControl struct {
	initial string
	active  atomic.Pointer[string]
	routes  []string
	now     func() time.Time

	mu     sync.RWMutex
	faults SimFaults
	tempF  float64
}

func NewSimControl(initial string, routes []string) *SimControl {
	initial = strings.TrimSpace(initial)
	if initial == "" {
		initial = "normal"
	}
	c := &SimControl{initial: initial, routes: routes, now: time.Now, tempF: defaultTempF}
	c.active.Store(&initial)
	return c
}

func (c *SimControl) ApplyScenario(name string) error {
	if name = strings.TrimSpace(name); name == "" {
		name = c.initial
	}
	apply, ok := scenarios[name]
	if !ok {
		return fmt.Errorf("unknown scenario %q", name)
	}
	c.mu.Lock()
	c.faults = SimFaults{}
	c.tempF = defaultTempF
	apply(c)
	c.mu.Unlock()
	c.active.Store(&name)
	return nil
}

func (c *SimControl) Scenario() string { return *c.active.Load() }

// Reset restores the scenario the simulator started with.
func (c *SimControl) Reset() error { return c.ApplyScenario(c.initial) }

func (c *SimControl) Faults() SimFaults {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := c.faults
	out.FailRoutes = slices.Clone(out.FailRoutes)
	out.RenderFail = slices.Clone(out.RenderFail)
	return out
}

func (c *SimControl) SetFaults(v SimFaults) {
	c.mu.Lock()
	c.faults = v
	c.mu.Unlock()
}

func (c *SimControl) TempF() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tempF
}

func (c *SimControl) SetTempF(f float64) {
	c.mu.Lock()
	c.tempF = f
	c.mu.Unlock()
}

func (c *SimControl) routeFails(route string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.ContainsFunc(c.faults.FailRoutes, func(r string) bool { return strings.EqualFold(r, route) })
}

func (c *SimControl) renderFails(widget string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Contains(c.faults.RenderFail, widget)
}

func (c *SimControl) clock() time.Time {
	if c.now != nil {
		return c.now()
	}
	return time.Now()
}

// faultyWidget fails Render on demand so the error frame can be seen.
type faultyWidget struct {
	widgets.Widget
	control *SimControl
}

func (f faultyWidget) Render(width, height int) (*image.RGBA, error) {
	if f.control.renderFails(f.Name()) {
		return nil, fmt.Errorf("simulated render failure")
	}
	return f.Widget.Render(width, height)
}

func wrapWidgets(ws []widgets.Widget, control *SimControl) []widgets.Widget {
	out := make([]widgets.Widget, 0, len(ws))
	for _, w := range ws {
		out = append(out, faultyWidget{Widget: w, control: control})
	}
	return out
}

// simRoute is one fault injection endpoint. Requests with any other method get 405.
type simRoute struct {
	pattern string
	methods []string
	handle  func(http.ResponseWriter, *http.Request)
}

func registerSimEndpoints(mux *http.ServeMux, control *SimControl, mirror *display.MemorySink) {
	scenarioReply := func(w http.ResponseWriter) {
		writeSimJSON(w, http.StatusOK, map[string]any{"ok": true, "scenario": control.Scenario()})
	}
	routes := []simRoute{
		{"/sim/reset", []string{http.MethodPost}, func(w http.ResponseWriter, r *http.Request) {
			if err := control.Reset(); err != nil {
				writeSimError(w, http.StatusInternalServerError, err.Error())
				return
			}
			scenarioReply(w)
		}},
		{"/sim/scenario/", []string{http.MethodPost}, func(w http.ResponseWriter, r *http.Request) {
			name := strings.Trim(strings.TrimPrefix(r.URL.Path, "/sim/scenario/"), "/")
			if err := control.ApplyScenario(name); err != nil {
				writeSimError(w, http.StatusBadRequest, err.Error())
				return
			}
			scenarioReply(w)
		}},
		{"/sim/weather", []string{http.MethodGet, http.MethodPost}, func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				var body struct {
					TempF *float64 `json:"tempF"`
				}
				if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.TempF == nil {
					writeSimError(w, http.StatusBadRequest, "want {\"tempF\": number}")
					return
				}
				control.SetTempF(*body.TempF)
			}
			writeSimJSON(w, http.StatusOK, map[string]any{"tempF": control.TempF()})
		}},
		{"/sim/faults", []string{http.MethodGet, http.MethodPost}, func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet {
				writeSimJSON(w, http.StatusOK, control.Faults())
				return
			}
			updated, err := patchFaults(control.Faults(), r)
			if err != nil {
				writeSimError(w, http.StatusBadRequest, "invalid json")
				return
			}
			control.SetFaults(updated)
			writeSimJSON(w, http.StatusOK, updated)
		}},
		{"/sim/sink", []string{http.MethodGet}, func(w http.ResponseWriter, r *http.Request) {
			frame, frames := mirror.Frame()
			writeSimJSON(w, http.StatusOK, map[string]any{
				"frames": frames,
				"clears": mirror.Clears(),
				"hash":   fmt.Sprintf("%016x", state.HashFrame(frame)),
			})
		}},
	}
	for _, route := range routes {
		route := route
		mux.HandleFunc(route.pattern, func(w http.ResponseWriter, r *http.Request) {
			if !slices.Contains(route.methods, r.Method) {
				w.Header().Set("Allow", strings.Join(route.methods, ", "))
				writeSimError(w, http.StatusMethodNotAllowed, r.Method+" not allowed")
				return
			}
			route.handle(w, r)
		})
	}
}

// patchFaults overlays the fields present in the request body onto current.
func patchFaults(current SimFaults, r *http.Request) (SimFaults, error) {
	var patch struct {
		WeatherFail *bool     `json:"weatherFail"`
		FailRoutes  *[]string `json:"failRoutes"`
		RenderFail  *[]string `json:"renderFail"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		return current, err
	}
	if patch.WeatherFail != nil {
		current.WeatherFail = *patch.WeatherFail
	}
	if patch.FailRoutes != nil {
		current.FailRoutes = *patch.FailRoutes
	}
	if patch.RenderFail != nil {
		current.RenderFail = *patch.RenderFail
	}
	return current, nil
}

func writeSimJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSimError(w http.ResponseWriter, status int, message string) {
	writeSimJSON(w, status, map[string]string{"error": message})
}
