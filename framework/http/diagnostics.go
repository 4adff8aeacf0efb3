package http

import (
	"net/http"

	"github.com/km-arc/go-inject/framework/container"
)

// Binding is the JSON view of one registry key.
type Binding struct {
	Interface string `json:"interface"`
	Name      string `json:"name"`
	State     string `json:"state"`
}

func toBinding(b container.BindingInfo) Binding {
	return Binding{Interface: b.Key.String(), Name: b.Key.Name(), State: b.State.String()}
}

// DiagnosticsController serves read-only views of a Registry.
type DiagnosticsController struct {
	Registry *container.Registry
	// Param extracts a route parameter; routing.Param in production.
	Param func(r *http.Request, key string) string
}

// Health reports liveness.
//
//	GET /healthz → 200 {"data":{"status":"ok"}}
func (c *DiagnosticsController) Health(w http.ResponseWriter, _ *http.Request) {
	NewResponse(w).Success(map[string]string{"status": "ok"})
}

// Index lists every binding.
//
//	GET /bindings → 200 {"data":[{"interface":"...","name":"Logger","state":"instantiated"}]}
func (c *DiagnosticsController) Index(w http.ResponseWriter, _ *http.Request) {
	infos := c.Registry.Bindings()
	out := make([]Binding, 0, len(infos))
	for _, b := range infos {
		out = append(out, toBinding(b))
	}
	NewResponse(w).Success(out)
}

// Show returns one binding by bare name or qualified identifier.
//
//	GET /bindings/{name} → 200 {"data":{...}} | 404 {"message":"..."}
func (c *DiagnosticsController) Show(w http.ResponseWriter, r *http.Request) {
	name := c.Param(r, "name")
	b, ok := c.Registry.Lookup(name)
	if !ok {
		NewResponse(w).NotFound("no binding registered for [" + name + "]")
		return
	}
	NewResponse(w).Success(toBinding(b))
}
