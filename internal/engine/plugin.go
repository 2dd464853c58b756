package engine

import (
	"github.com/yacobolo/windgen/internal/config"
	"github.com/yacobolo/windgen/internal/css"
	"github.com/yacobolo/windgen/internal/datatype"
	"github.com/yacobolo/windgen/internal/offsets"
	"github.com/yacobolo/windgen/internal/selector"
	"github.com/yacobolo/windgen/internal/theme"
)

// Plugin registers utilities, components, base styles and variants.
type Plugin interface {
	Register(api *API)
}

// PluginFunc adapts a function to Plugin.
type PluginFunc func(api *API)

// Register calls f.
func (f PluginFunc) Register(api *API) { f(api) }

// RuleOptions tunes how static rules react to the prefix and important
// configuration.
type RuleOptions struct {
	NoPrefix    bool
	NoImportant bool
}

// TypeSpec is one value type a parameterised utility accepts.
type TypeSpec struct {
	Type datatype.Type
	// PreferOnConflict makes the utility win when an arbitrary value is
	// claimed by several utilities.
	PreferOnConflict bool
}

// Types builds type specs without conflict preference.
func Types(types ...datatype.Type) []TypeSpec {
	out := make([]TypeSpec, len(types))
	for i, t := range types {
		out[i] = TypeSpec{Type: t}
	}
	return out
}

// MatchOptions configures MatchUtilities.
type MatchOptions struct {
	Values *theme.Scale
	// Types defaults to any.
	Types            []TypeSpec
	SupportsNegative bool
	// Modifiers lists the accepted /modifier values; AnyModifier accepts
	// any arbitrary one.
	Modifiers   *theme.Scale
	AnyModifier bool
	NoPrefix    bool
	NoImportant bool
}

// Info is passed to utility functions alongside the resolved value.
type Info struct {
	// Modifier is the resolved /modifier, or "" when there is none.
	Modifier string
}

// UtilityFunc turns a resolved value into declarations. A nil result
// means the value does not apply.
type UtilityFunc func(value theme.Value, info Info) Style

// Utility names a parameterised utility.
type Utility struct {
	Name string
	Fn   UtilityFunc
}

// U is shorthand for Utility{name, fn}.
func U(name string, fn UtilityFunc) Utility {
	return Utility{Name: name, Fn: fn}
}

// Rules is a list of static rules.
type Rules []Rule

// ruleOptions is the registration metadata shared by every entry of one
// registration call.
type ruleOptions struct {
	layer            offsets.Layer
	respectPrefix    bool
	respectImportant bool
	types            []TypeSpec
	values           *theme.Scale
	supportsNegative bool
	modifiers        *theme.Scale
	anyModifier      bool
}

func (o *ruleOptions) hasType(t datatype.Type) bool {
	for _, ts := range o.types {
		if ts.Type == t {
			return true
		}
	}
	return false
}

// ruleEntry is one registration under a class identifier. Static entries
// carry a node; dynamic ones a function of the class modifier.
type ruleEntry struct {
	key  offsets.Key
	opts *ruleOptions
	node *css.Node
	fn   func(modifier string, onlyPlugin bool) []*css.Node
}

// classEntry is an identifier offered for safelist pattern matching.
type classEntry struct {
	name string
	opts *ruleOptions
}

// API is handed to plugins during registration.
type API struct {
	ctx *Context
}

// Config returns the engine configuration.
func (a *API) Config() *config.Config { return a.ctx.cfg }

// Theme returns the value at path, or nil.
func (a *API) Theme(path string) theme.Value {
	v, _ := a.ctx.theme.Resolve(path)
	return v
}

// ThemeScale returns the scale at path, or an empty scale.
func (a *API) ThemeScale(path string) *theme.Scale {
	return a.ctx.theme.Scale(path)
}

// ThemeString returns the string at path, or def.
func (a *API) ThemeString(path, def string) string {
	if s, ok := theme.Stringify(a.Theme(path)); ok {
		return s
	}
	return def
}

// Prefix applies the configured class prefix to every class of sel.
func (a *API) Prefix(sel string) string {
	out, err := selector.Prefix(a.ctx.cfg.Prefix, sel, false)
	if err != nil {
		return sel
	}
	return out
}

// Escape escapes a class name for use in a selector.
func (a *API) Escape(class string) string { return selector.Escape(class) }

// Warn records a warning for the next build result.
func (a *API) Warn(msg string) { a.ctx.warn(msg) }

// CorePluginEnabled reports whether the named core plugin is on.
func (a *API) CorePluginEnabled(name string) bool {
	return a.ctx.cfg.CorePlugins.Enabled(name)
}

// AddBase registers rules in the base layer. They are emitted whenever
// one of their classes is used, or always when they have none.
func (a *API) AddBase(rules Rules) {
	a.ctx.addStatic(rulesNodes(rules), &ruleOptions{layer: offsets.Base})
}

// AddDefaults registers custom property defaults emitted once for every
// element ahead of the base layer.
func (a *API) AddDefaults(group string, decls Style) {
	a.ctx.addDefaults(group, decls)
}

// AddComponents registers rules in the components layer.
func (a *API) AddComponents(rules Rules, opts ...RuleOptions) {
	o := mergeRuleOptions(opts)
	a.ctx.addStatic(rulesNodes(rules), &ruleOptions{layer: offsets.Components, respectPrefix: !o.NoPrefix})
}

// AddUtilities registers static utilities.
func (a *API) AddUtilities(rules Rules, opts ...RuleOptions) {
	o := mergeRuleOptions(opts)
	a.ctx.addStatic(rulesNodes(rules), &ruleOptions{
		layer:            offsets.Utilities,
		respectPrefix:    !o.NoPrefix,
		respectImportant: !o.NoImportant,
	})
}

// MatchUtilities registers parameterised utilities sharing one set of
// options and one ordering position.
func (a *API) MatchUtilities(utils []Utility, opts MatchOptions) {
	a.ctx.matchUtilities(offsets.Utilities, utils, opts)
}

// MatchComponents registers parameterised components.
func (a *API) MatchComponents(utils []Utility, opts MatchOptions) {
	opts.NoImportant = true
	a.ctx.matchUtilities(offsets.Components, utils, opts)
}

// AddVariant registers a variant from format strings such as "&:hover"
// or "@media print". Several formats fork the rule.
func (a *API) AddVariant(name string, formats ...string) {
	fns, err := formatsFunc(name, formats)
	if err != nil {
		a.ctx.registerErr(err)
		return
	}
	a.ctx.addVariant(name, fns, variantMeta{})
}

// AddVariantFunc registers a variant implemented in code.
func (a *API) AddVariantFunc(name string, fns ...VariantFunc) {
	a.ctx.addVariant(name, fns, variantMeta{})
}

// MatchVariant registers a parameterised variant: name-[value] for
// arbitrary values and name-key for every configured value.
func (a *API) MatchVariant(name string, fn MatchVariantFunc, opts VariantOptions) {
	a.ctx.matchVariant(name, fn, opts)
}

func mergeRuleOptions(opts []RuleOptions) RuleOptions {
	var out RuleOptions
	for _, o := range opts {
		out.NoPrefix = out.NoPrefix || o.NoPrefix
		out.NoImportant = out.NoImportant || o.NoImportant
	}
	return out
}

func rulesNodes(rules Rules) []*css.Node {
	var out []*css.Node
	for _, r := range rules {
		out = append(out, r.nodes()...)
	}
	return out
}
