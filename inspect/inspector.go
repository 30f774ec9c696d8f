// Package inspect exposes the registry and live engines over HTTP, for
// debugging what the type system actually sees: which types are
// registered, what their resolved member tables look like, and which
// singletons an engine has instantiated so far.
//
// The API is read-only except for POST /manifests/validate, which checks a
// YAML manifest body without touching the registry.
package inspect

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	slate "github.com/km-arc/go-slate"
	"github.com/km-arc/go-slate/engine"
	"github.com/km-arc/go-slate/manifest"
	"github.com/km-arc/go-slate/meta"
	"github.com/km-arc/go-slate/registry"
)

// Inspector serves the introspection API for one registry and any engines
// attached to it.
type Inspector struct {
	reg *registry.Registry

	mu      sync.RWMutex
	engines map[string]*engine.Engine

	mux chi.Router
}

// New creates an Inspector over reg.
func New(reg *registry.Registry) *Inspector {
	ins := &Inspector{
		reg:     reg,
		engines: make(map[string]*engine.Engine),
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Get("/types", ins.listTypes)
	r.Get("/types/{module}/{version}/{name}", ins.showType)
	r.Get("/engines", ins.listEngines)
	r.Get("/engines/{id}/singletons", ins.showSingletons)
	r.Post("/manifests/validate", ins.validateManifest)

	ins.mux = r
	return ins
}

// Attach makes an engine visible under /engines.
func (ins *Inspector) Attach(e *engine.Engine) {
	ins.mu.Lock()
	defer ins.mu.Unlock()
	ins.engines[e.ID()] = e
}

// Detach removes an engine, typically right before closing it.
func (ins *Inspector) Detach(e *engine.Engine) {
	ins.mu.Lock()
	defer ins.mu.Unlock()
	delete(ins.engines, e.ID())
}

func (ins *Inspector) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ins.mux.ServeHTTP(w, r)
}

// ── DTOs ─────────────────────────────────────────────────────────────────────

type typeSummary struct {
	Module    string `json:"module"`
	Version   string `json:"version"`
	Name      string `json:"name"`
	Singleton bool   `json:"singleton"`
	Extended  bool   `json:"extended"`
}

type typeDetail struct {
	typeSummary
	DeclaredType string              `json:"declaredType"`
	ProxyType    string              `json:"proxyType,omitempty"`
	Properties   []propertyDTO       `json:"properties"`
	Methods      map[string][]string `json:"methods"`
}

type propertyDTO struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func summarize(d *registry.TypeDescriptor) typeSummary {
	id := d.ID()
	return typeSummary{
		Module:    id.Module,
		Version:   strconv.Itoa(id.Major) + "." + strconv.Itoa(id.Minor),
		Name:      id.Name,
		Singleton: d.Singleton(),
		Extended:  d.Extended(),
	}
}

func describe(d *registry.TypeDescriptor) typeDetail {
	// The tables shown are the registration-time view: the declared
	// meta-object, or the proxy for extended types. What an engine resolves
	// for a live singleton can be wider; that is visible per engine.
	mo := d.DeclaredMeta()
	detail := typeDetail{
		typeSummary:  summarize(d),
		DeclaredType: mo.GoType().String(),
	}
	if proxy := d.ExtendedMeta(); proxy != nil {
		detail.ProxyType = proxy.GoType().String()
		mo = proxy
	}
	detail.Properties = properties(mo)
	detail.Methods = methods(mo)
	return detail
}

func properties(mo *meta.Object) []propertyDTO {
	props := mo.Properties()
	out := make([]propertyDTO, 0, len(props))
	for _, p := range props {
		out = append(out, propertyDTO{Name: p.Name, Type: p.Type.String()})
	}
	return out
}

func methods(mo *meta.Object) map[string][]string {
	out := make(map[string][]string)
	for _, name := range mo.MethodNames() {
		for _, m := range mo.Overloads(name) {
			out[name] = append(out[name], m.Signature())
		}
	}
	return out
}

// ── Handlers ─────────────────────────────────────────────────────────────────

func (ins *Inspector) listTypes(w http.ResponseWriter, r *http.Request) {
	res := NewResponse(w)
	ids := ins.reg.Types()
	out := make([]typeSummary, 0, len(ids))
	for _, id := range ids {
		d, err := ins.reg.Lookup(id)
		if err != nil {
			continue
		}
		out = append(out, summarize(d))
	}
	res.Success(out)
}

func (ins *Inspector) showType(w http.ResponseWriter, r *http.Request) {
	res := NewResponse(w)
	id, ok := typeIDFromRoute(r)
	if !ok {
		res.Error(http.StatusBadRequest, "version must look like \"major.minor\"")
		return
	}
	d, err := ins.reg.Lookup(id)
	if err != nil {
		if slate.IsTypeNotFound(err) {
			res.NotFound(err.Error())
			return
		}
		res.Error(http.StatusInternalServerError, err.Error())
		return
	}
	res.Success(describe(d))
}

func (ins *Inspector) listEngines(w http.ResponseWriter, r *http.Request) {
	res := NewResponse(w)
	ins.mu.RLock()
	ids := make([]string, 0, len(ins.engines))
	for id := range ins.engines {
		ids = append(ids, id)
	}
	ins.mu.RUnlock()
	res.Success(ids)
}

func (ins *Inspector) showSingletons(w http.ResponseWriter, r *http.Request) {
	res := NewResponse(w)
	ins.mu.RLock()
	e, ok := ins.engines[chi.URLParam(r, "id")]
	ins.mu.RUnlock()
	if !ok {
		res.NotFound("no such engine")
		return
	}
	res.Success(e.SingletonStates())
}

func (ins *Inspector) validateManifest(w http.ResponseWriter, r *http.Request) {
	res := NewResponse(w)
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil || len(body) == 0 {
		res.Error(http.StatusBadRequest, "empty request body")
		return
	}
	m, err := manifest.Parse(body)
	if err != nil {
		var serr *slate.Error
		if errors.As(err, &serr) && serr.Code == slate.ErrCodeManifestInvalid {
			if bag, ok := serr.Cause.(*manifest.Errors); ok {
				res.ValidationError(bag)
				return
			}
		}
		res.Error(http.StatusBadRequest, err.Error())
		return
	}
	res.Success(map[string]any{"module": m.Module, "version": m.Version, "types": len(m.Types)})
}

func typeIDFromRoute(r *http.Request) (registry.TypeID, bool) {
	version := chi.URLParam(r, "version")
	before, after, found := strings.Cut(version, ".")
	if !found {
		return registry.TypeID{}, false
	}
	major, err1 := strconv.Atoi(before)
	minor, err2 := strconv.Atoi(after)
	if err1 != nil || err2 != nil {
		return registry.TypeID{}, false
	}
	return registry.TypeID{
		Module: chi.URLParam(r, "module"),
		Major:  major,
		Minor:  minor,
		Name:   chi.URLParam(r, "name"),
	}, true
}
