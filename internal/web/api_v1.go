package web

import (
	"fmt"
	"image"
	"image/png"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	jsoniter "github.com/json-iterator/go"
	xdraw "golang.org/x/image/draw"

	"github.com/mini-display/minidisplay/internal/state"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const maxFrameScale = 16

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type frameResponse struct {
	Widget string    `json:"widget"`
	Hash   string    `json:"hash"`
	Width  int       `json:"width"`
	Height int       `json:"height"`
	At     time.Time `json:"at"`
	Failed bool      `json:"failed"`
}

type widgetStatusResponse struct {
	Name           string     `json:"name"`
	Refreshes      uint64     `json:"refreshes"`
	RefreshErrors  uint64     `json:"refreshErrors"`
	LastRefresh    *time.Time `json:"lastRefresh,omitempty"`
	LastRefreshAgo string     `json:"lastRefreshAgo,omitempty"`
	LastError      string     `json:"lastError,omitempty"`
	Shown          uint64     `json:"shown"`
	RenderFailures uint64     `json:"renderFailures"`
}

type statusResponse struct {
	Phase      string                 `json:"phase"`
	Error      string                 `json:"error,omitempty"`
	StartedAt  *time.Time             `json:"startedAt,omitempty"`
	Uptime     string                 `json:"uptime,omitempty"`
	Current    string                 `json:"current"`
	Cycles     uint64                 `json:"cycles"`
	CyclesText string                 `json:"cyclesText"`
	Frame      *frameResponse         `json:"frame,omitempty"`
	Widgets    []widgetStatusResponse `json:"widgets"`
}

type widgetsResponse struct {
	Active    []string `json:"active"`
	Available []string `json:"available"`
}

func apiV1Router(deps APIV1Deps) http.Handler {
	deps = deps.withDefaults()
	mux := http.NewServeMux()
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) { handleStatus(w, r, deps) })
	mux.HandleFunc("/widgets", func(w http.ResponseWriter, r *http.Request) { handleWidgets(w, r, deps) })
	mux.HandleFunc("/frame.png", func(w http.ResponseWriter, r *http.Request) { handleFrame(w, r, deps) })
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusNotFound, "not_found", "not found")
	})
	return mux
}

func handleStatus(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, buildStatus(deps.Store.Snapshot(), deps.Now()))
}

func buildStatus(s state.State, now time.Time) statusResponse {
	resp := statusResponse{
		Phase:      s.Phase.String(),
		Error:      s.Err,
		Current:    s.Current,
		Cycles:     s.Cycles,
		CyclesText: humanize.Comma(int64(s.Cycles)),
		Widgets:    make([]widgetStatusResponse, 0, len(s.Widgets)),
	}
	if !s.StartedAt.IsZero() {
		started := s.StartedAt
		resp.StartedAt = &started
		resp.Uptime = strings.TrimSpace(humanize.RelTime(started, now, "", ""))
	}
	if s.Frame.Hash != 0 {
		resp.Frame = &frameResponse{
			Widget: s.Frame.Widget,
			Hash:   frameETag(s.Frame.Hash),
			Width:  s.Frame.Width,
			Height: s.Frame.Height,
			At:     s.Frame.At,
			Failed: s.Frame.Failed,
		}
	}
	for _, ws := range s.Widgets {
		item := widgetStatusResponse{
			Name:           ws.Name,
			Refreshes:      ws.Refreshes,
			RefreshErrors:  ws.RefreshErrors,
			LastError:      ws.LastError,
			Shown:          ws.Shown,
			RenderFailures: ws.RenderFailures,
		}
		if !ws.LastRefresh.IsZero() {
			at := ws.LastRefresh
			item.LastRefresh = &at
			item.LastRefreshAgo = humanize.RelTime(at, now, "ago", "from now")
		}
		resp.Widgets = append(resp.Widgets, item)
	}
	return resp
}

func handleWidgets(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	resp := widgetsResponse{Active: deps.Active, Available: deps.Available}
	if resp.Active == nil {
		resp.Active = []string{}
	}
	if resp.Available == nil {
		resp.Available = []string{}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleFrame serves the last frame as PNG. The ETag is the frame hash so
// pollers only download frames that changed. ?scale=N enlarges it.
func handleFrame(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	scale := 1
	if raw := r.URL.Query().Get("scale"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxFrameScale {
			writeAPIError(w, http.StatusBadRequest, "bad_scale", fmt.Sprintf("scale must be 1..%d", maxFrameScale))
			return
		}
		scale = n
	}

	frame, info := deps.Store.Frame()
	if frame == nil {
		writeAPIError(w, http.StatusServiceUnavailable, "no_frame", "no frame rendered yet")
		return
	}

	etag := `"` + frameETag(info.Hash) + "-" + strconv.Itoa(scale) + `"`
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	out := image.Image(frame)
	if scale > 1 {
		b := frame.Bounds()
		big := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
		xdraw.NearestNeighbor.Scale(big, big.Bounds(), frame, b, xdraw.Src, nil)
		out = big
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_ = png.Encode(w, out)
}

func frameETag(hash uint64) string {
	return fmt.Sprintf("%016x", hash)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiError{Error: code, Message: message})
}
