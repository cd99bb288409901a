package parser

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Reference resolution failures.
var (
	ErrCircularReference   = errors.New("circular schema reference")
	ErrUnresolvedReference = errors.New("unresolved schema reference")
)

// DFS colors for cycle detection over the definition arena.
const (
	refWhite = iota // not visited
	refGray         // on the current path
	refBlack        // fully explored
)

// refChecker walks the definition arena and every endpoint schema,
// rejecting references that point nowhere and reference cycles. A cycle
// is reported with the chain of names that closes it.
type refChecker struct {
	defs   map[string]*rawSchema
	prefix string
	color  map[string]int
	stack  []string
}

func newRefChecker(defs map[string]*rawSchema, prefix string) *refChecker {
	return &refChecker{
		defs:   defs,
		prefix: prefix,
		color:  make(map[string]int, len(defs)),
	}
}

// checkAll verifies the whole arena. Definitions are visited in name
// order so the reported chain is stable.
func (c *refChecker) checkAll() error {
	names := make([]string, 0, len(c.defs))
	for name := range c.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := c.visit(name); err != nil {
			return err
		}
	}
	return nil
}

// checkNode verifies references reachable from a schema outside the
// arena, such as a request body or response schema.
func (c *refChecker) checkNode(r *rawSchema) error {
	return walkRefs(r, func(ref string) error {
		name, err := c.refName(ref)
		if err != nil {
			return err
		}
		return c.visit(name)
	})
}

func (c *refChecker) visit(name string) error {
	switch c.color[name] {
	case refBlack:
		return nil
	case refGray:
		chain := append(c.chainFrom(name), name)
		return fmt.Errorf("%w: %s", ErrCircularReference, strings.Join(chain, " -> "))
	}

	node, ok := c.defs[name]
	if !ok {
		return fmt.Errorf("%w: %s%s", ErrUnresolvedReference, c.prefix, name)
	}

	c.color[name] = refGray
	c.stack = append(c.stack, name)
	err := walkRefs(node, func(ref string) error {
		target, refErr := c.refName(ref)
		if refErr != nil {
			return refErr
		}
		return c.visit(target)
	})
	c.stack = c.stack[:len(c.stack)-1]
	if err != nil {
		return err
	}
	c.color[name] = refBlack
	return nil
}

// chainFrom returns the part of the active path starting at name.
func (c *refChecker) chainFrom(name string) []string {
	for i, n := range c.stack {
		if n == name {
			return append([]string(nil), c.stack[i:]...)
		}
	}
	return append([]string(nil), c.stack...)
}

// refName strips the arena prefix; any other reference shape is
// unresolvable by construction.
func (c *refChecker) refName(ref string) (string, error) {
	name, ok := strings.CutPrefix(ref, c.prefix)
	if !ok || name == "" || strings.Contains(name, "/") {
		return "", fmt.Errorf("%w: %s", ErrUnresolvedReference, ref)
	}
	return name, nil
}

// walkRefs calls fn for every $ref found in r and its nested schemas.
func walkRefs(r *rawSchema, fn func(ref string) error) error {
	if r == nil {
		return nil
	}
	if r.Ref != "" {
		return fn(r.Ref)
	}

	if r.Items != nil {
		if err := walkRefs(r.Items.Schema, fn); err != nil {
			return err
		}
		for _, t := range r.Items.Tuple {
			if err := walkRefs(t, fn); err != nil {
				return err
			}
		}
	}
	if r.AdditionalItems != nil {
		if err := walkRefs(r.AdditionalItems.Schema, fn); err != nil {
			return err
		}
	}
	if err := walkRefs(r.Contains, fn); err != nil {
		return err
	}

	for _, p := range r.Properties {
		if err := walkRefs(p, fn); err != nil {
			return err
		}
	}
	for _, p := range r.PatternProperties {
		if err := walkRefs(p, fn); err != nil {
			return err
		}
	}
	if r.AdditionalProperties != nil {
		if err := walkRefs(r.AdditionalProperties.Schema, fn); err != nil {
			return err
		}
	}
	for _, d := range r.Dependencies {
		if d == nil {
			continue
		}
		if err := walkRefs(d.Schema, fn); err != nil {
			return err
		}
	}
	return nil
}
