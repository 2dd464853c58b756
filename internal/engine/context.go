// Package engine matches candidates against registered utilities and
// variants and assembles the generated stylesheet.
package engine

import (
	"errors"
	"sort"
	"strconv"
	"sync"

	"github.com/yacobolo/windgen/internal/config"
	"github.com/yacobolo/windgen/internal/css"
	"github.com/yacobolo/windgen/internal/offsets"
	"github.com/yacobolo/windgen/internal/selector"
	"github.com/yacobolo/windgen/internal/theme"
)

// notOnDemand is the identifier of rules that have no class to key them
// by. It is a candidate in every build, so such rules are always emitted.
const notOnDemand = "*"

// Context is the state built for one resolved configuration: the plugin
// registries, the ordering tracker and the caches that survive across
// builds. The caches only grow; a changed configuration needs a new
// Context. A Context serialises its builds.
type Context struct {
	mu sync.Mutex

	cfg     *config.Config
	theme   *theme.Theme
	tracker *offsets.Tracker

	rules     map[string][]*ruleEntry
	classList []classEntry
	defaults  []defaultsGroup

	variantDefs   map[string]*variantDef
	variantOrder  []string
	variantTuples map[string][]variantTuple
	variantIDs    int

	// classCache holds the matches of every candidate seen, notClass the
	// candidates that matched nothing. candidateRules holds the emitted
	// fragments per candidate; fragments all of them, in discovery order.
	classCache     map[string][]*match
	notClass       map[string]bool
	candidateRules map[string][]*match
	fragments      []*match
	candidates     map[string]bool
	stylesheet     *layerNodes

	safelist         []string
	directivePattern map[string][]string

	warnings []string
	warned   map[string]bool
	errs     []error
}

type defaultsGroup struct {
	name  string
	decls Style
}

type variantMeta struct {
	id       string
	sort     offsets.SortFunc
	value    string
	hasValue bool
	noPrefix bool
}

type variantDef struct {
	fns  []VariantFunc
	meta variantMeta
}

type variantTuple struct {
	key       offsets.Key
	fn        VariantFunc
	container *css.Node
}

// match is a generated fragment with its ordering key.
type match struct {
	key       offsets.Key
	opts      *ruleOptions
	node      *css.Node
	important bool
	// varied is set once a variant applied; the candidate then replaces
	// the base class in the final selector.
	varied    bool
	formats   []selector.Format
}

func (m *match) clone(node *css.Node) *match {
	out := *m
	out.node = node
	out.formats = append([]selector.Format(nil), m.formats...)
	return &out
}

// NewContext registers the core plugins, plugins and the rules of the
// stylesheet's @layer blocks against cfg. Registration problems, such as
// invalid variant formats, are returned joined; the context is usable
// regardless.
func NewContext(cfg *config.Config, layers *Layers, plugins ...Plugin) (*Context, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	c := &Context{
		cfg:              cfg,
		theme:            theme.New(theme.DefaultTable(), cfg.Theme, cfg.Extend),
		tracker:          offsets.New(),
		rules:            map[string][]*ruleEntry{},
		variantDefs:      map[string]*variantDef{},
		variantTuples:    map[string][]variantTuple{},
		classCache:       map[string][]*match{},
		notClass:         map[string]bool{},
		candidateRules:   map[string][]*match{},
		candidates:       map[string]bool{},
		directivePattern: map[string][]string{},
		warned:           map[string]bool{},
	}
	for _, w := range c.theme.Warnings() {
		c.warn(w)
	}

	api := &API{ctx: c}
	for _, p := range c.registrationOrder(layers, plugins) {
		p.Register(api)
	}
	c.recordVariants()
	c.safelist = c.resolveSafelist(cfg.Safelist)
	return c, errors.Join(c.errs...)
}

// Config returns the configuration the context was built for.
func (c *Context) Config() *config.Config { return c.cfg }

// Theme returns the resolved theme.
func (c *Context) Theme() *theme.Theme { return c.theme }

// registrationOrder lists plugins in the order their rules and variants
// are declared: core utilities, the variants that react to element state,
// user plugins, the variants that react to the environment, then the
// stylesheet's own layers.
func (c *Context) registrationOrder(layers *Layers, plugins []Plugin) []Plugin {
	var out []Plugin
	for _, p := range corePlugins() {
		if c.cfg.CorePlugins.Enabled(p.name) {
			out = append(out, p)
		}
	}
	out = append(out, beforeVariants()...)
	out = append(out, plugins...)
	out = append(out, afterVariants(c.cfg.DarkMode.Strategy == config.DarkClass)...)
	if layers != nil {
		out = append(out, layers)
	}
	return out
}

func (c *Context) warn(msg string) {
	if c.warned[msg] {
		return
	}
	c.warned[msg] = true
	c.warnings = append(c.warnings, msg)
}

func (c *Context) drainWarnings() []string {
	out := c.warnings
	c.warnings = nil
	return out
}

func (c *Context) registerErr(err error) {
	c.errs = append(c.errs, err)
}

func (c *Context) prefixIdentifier(id string, o *ruleOptions) string {
	if id == notOnDemand || !o.respectPrefix {
		return id
	}
	return c.cfg.Prefix + id
}

// addStatic registers nodes under every class their selectors mention.
func (c *Context) addStatic(nodes []*css.Node, o *ruleOptions) {
	for _, ident := range withIdentifiers(nodes) {
		id := c.prefixIdentifier(ident.id, o)
		if id != notOnDemand {
			c.classList = append(c.classList, classEntry{name: id})
		}
		c.rules[id] = append(c.rules[id], &ruleEntry{
			key:  c.tracker.Create(o.layer),
			opts: o,
			node: ident.node,
		})
	}
}

func (c *Context) addDefaults(group string, decls Style) {
	for _, g := range c.defaults {
		if g.name == group {
			return
		}
	}
	c.defaults = append(c.defaults, defaultsGroup{name: group, decls: decls})
}

func (c *Context) matchUtilities(layer offsets.Layer, utils []Utility, mo MatchOptions) {
	o := &ruleOptions{
		layer:            layer,
		respectPrefix:    !mo.NoPrefix,
		respectImportant: !mo.NoImportant,
		types:            mo.Types,
		values:           mo.Values,
		supportsNegative: mo.SupportsNegative,
		modifiers:        mo.Modifiers,
		anyModifier:      mo.AnyModifier,
	}
	if len(o.types) == 0 {
		o.types = Types("any")
	}
	if o.values == nil {
		o.values = theme.NewScale()
	}
	key := c.tracker.Create(layer)
	for _, u := range utils {
		id := c.prefixIdentifier(u.Name, o)
		c.classList = append(c.classList, classEntry{name: id, opts: o})
		c.rules[id] = append(c.rules[id], &ruleEntry{
			key:  key,
			opts: o,
			fn:   c.wrapUtility(u.Name, u.Fn, o),
		})
	}
}

func (c *Context) addVariant(name string, fns []VariantFunc, meta variantMeta) {
	if _, exists := c.variantDefs[name]; !exists {
		c.variantOrder = append(c.variantOrder, name)
	}
	c.variantDefs[name] = &variantDef{fns: fns, meta: meta}
}

func (c *Context) matchVariant(name string, fn MatchVariantFunc, opts VariantOptions) {
	id := opts.ID
	if id == "" {
		c.variantIDs++
		id = strconv.Itoa(c.variantIDs)
	}
	special := name == "@"
	values := opts.Values
	if values == nil {
		values = theme.NewScale()
	}
	for _, key := range values.Keys() {
		if key == "DEFAULT" {
			continue
		}
		v, _ := values.Get(key)
		value, ok := theme.Stringify(v)
		if !ok {
			continue
		}
		vname := name + "-" + key
		if special {
			vname = name + key
		}
		c.addVariant(vname, []VariantFunc{func(api *VariantAPI) ([]string, bool) {
			formats := fn(value, VariantInfo{Modifier: api.Modifier, api: api})
			return formats, formats != nil
		}}, variantMeta{id: id, sort: opts.Sort, value: value, hasValue: true, noPrefix: opts.NoPrefix})
	}

	def, hasDefault := values.Get("DEFAULT")
	defValue, _ := theme.Stringify(def)
	c.addVariant(name, []VariantFunc{func(api *VariantAPI) ([]string, bool) {
		value := api.Value
		if !api.hasValue {
			if !hasDefault {
				return nil, false
			}
			value = defValue
		}
		formats := fn(value, VariantInfo{Modifier: api.Modifier, api: api})
		return formats, formats != nil
	}}, variantMeta{id: id, sort: opts.Sort, noPrefix: opts.NoPrefix})
}

// recordVariants assigns variant bits in declaration order.
func (c *Context) recordVariants() {
	for _, name := range c.variantOrder {
		c.tracker.RecordVariant(name, len(c.variantDefs[name].fns))
	}
	for _, name := range c.variantOrder {
		c.variantTuples[name] = c.tuplesFor(name)
	}
}

func (c *Context) tuplesFor(name string) []variantTuple {
	def := c.variantDefs[name]
	tuples := make([]variantTuple, 0, len(def.fns))
	for i, fn := range def.fns {
		k, err := c.tracker.ForVariant(name, i)
		if err != nil {
			continue
		}
		tuples = append(tuples, variantTuple{key: k, fn: fn})
	}
	return tuples
}

// Variants returns the registered variant names in declaration order.
func (c *Context) Variants() []string {
	return append([]string(nil), c.variantOrder...)
}

// ClassList returns every class a plugin registered: static classes and,
// for parameterised utilities, one class per configured value.
func (c *Context) ClassList() []string {
	seen := map[string]bool{}
	var out []string
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, e := range c.classList {
		if e.opts == nil {
			add(e.name)
			continue
		}
		for _, k := range e.opts.values.Keys() {
			add(formatClass(e.name, k))
		}
	}
	sort.Strings(out)
	return out
}

type identified struct {
	id   string
	node *css.Node
}

// withIdentifiers keys nodes by the classes of their selectors, ignoring
// classes inside :not(). Nodes with a selector without classes are keyed by
// notOnDemand as well.
func withIdentifiers(nodes []*css.Node) []identified {
	var out []identified
	for _, n := range nodes {
		var selectors []string
		switch n.Type {
		case css.RuleNode:
			selectors = selector.Split(n.Selector)
		case css.AtRuleNode:
			n.WalkRules(func(r *css.Node) {
				if inKeyframes(r) {
					return
				}
				selectors = append(selectors, selector.Split(r.Selector)...)
			})
		}

		seen := map[string]bool{}
		var ids []string
		nonOnDemand := len(selectors) == 0
		for _, s := range selectors {
			classes, err := selector.Classes(s, true)
			if err != nil || len(classes) == 0 {
				nonOnDemand = true
				continue
			}
			for _, cls := range classes {
				if !seen[cls] {
					seen[cls] = true
					ids = append(ids, cls)
				}
			}
		}
		if nonOnDemand {
			ids = append([]string{notOnDemand}, ids...)
		}
		for _, id := range ids {
			out = append(out, identified{id: id, node: n})
		}
	}
	return out
}

func inKeyframes(n *css.Node) bool {
	return n.Closest(func(p *css.Node) bool {
		return p != n && p.Type == css.AtRuleNode && (p.Name == "keyframes" || p.Name == "-webkit-keyframes")
	}) != nil
}
