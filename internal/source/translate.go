package source

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// translate converts the decoded HCL schema into the format-agnostic Unit
// model, splitting the "name(p1, p2, ...)" node-reference shorthand and the
// "a -> b" edge shorthand by hand — the one piece of this package that is
// not a direct gohcl decode, since HCL's own grammar has no notion of
// either.
func translate(path string, u *unitSchema) (*Unit, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	out := &Unit{Path: path}

	for _, ib := range u.Imports {
		out.Imports = append(out.Imports, ImportDef{
			Namespace: ib.Namespace,
			Path:      ib.Path,
			Pos:       ib.Remain.MissingItemRange(),
		})
	}

	for _, gb := range u.Graphs {
		gd := GraphDef{
			Name: gb.Name,
			Pos:  gb.Remain.MissingItemRange(),
		}
		for _, p := range gb.Params {
			gd.Params = append(gd.Params, p.Name)
		}
		for _, a := range gb.Args {
			gd.Args = append(gd.Args, a.Name)
		}

		for _, nb := range gb.Nodes {
			typeName, params, err := parseTypeRef(nb.Type)
			if err != nil {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "invalid node type reference",
					Detail:   fmt.Sprintf("node %q: %s", nb.VarName, err),
					Subject:  nb.Remain.MissingItemRange().Ptr(),
				})
				continue
			}
			gd.NodeDecls = append(gd.NodeDecls, NodeDecl{
				VarName:  nb.VarName,
				TypeName: typeName,
				Params:   params,
				Pos:      nb.Remain.MissingItemRange(),
			})
		}

		for _, eb := range gb.Edges {
			gd.Edges = append(gd.Edges, EdgeDecl{From: eb.From, To: eb.To, Pos: eb.Remain.MissingItemRange()})
		}
		for _, raw := range gb.EdgeShorthand {
			from, to, err := parseEdgeShorthand(raw)
			if err != nil {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "invalid edge shorthand",
					Detail:   err.Error(),
					Subject:  gd.Pos.Ptr(),
				})
				continue
			}
			gd.Edges = append(gd.Edges, EdgeDecl{From: from, To: to, Pos: gd.Pos})
		}

		out.Graphs = append(out.Graphs, gd)
	}

	return out, diags
}

// parseTypeRef splits "name(p1, p2)" into its name and parameter literals;
// a reference with no parentheses has no parameters.
func parseTypeRef(raw string) (string, []Literal, error) {
	raw = strings.TrimSpace(raw)
	open := strings.IndexByte(raw, '(')
	if open < 0 {
		return raw, nil, nil
	}
	if !strings.HasSuffix(raw, ")") {
		return "", nil, fmt.Errorf("unterminated parameter list in %q", raw)
	}
	name := strings.TrimSpace(raw[:open])
	inner := strings.TrimSpace(raw[open+1 : len(raw)-1])
	if inner == "" {
		return name, nil, nil
	}

	var params []Literal
	for _, piece := range strings.Split(inner, ",") {
		lit, err := ParseLiteralText(strings.TrimSpace(piece))
		if err != nil {
			return "", nil, fmt.Errorf("parameter of %q: %w", name, err)
		}
		params = append(params, lit)
	}
	return name, params, nil
}

// ParseLiteralText parses a decimal integer or a single-quoted single-byte
// character into a Literal. It is exported so internal/registry can apply
// the same rule to a bare node-type reference to recognize it as a Literal
// node rather than a registered type name.
func ParseLiteralText(s string) (Literal, error) {
	if len(s) >= 3 && strings.HasPrefix(s, "'") && strings.HasSuffix(s, "'") {
		body := s[1 : len(s)-1]
		if len(body) != 1 {
			return Literal{}, fmt.Errorf("char literal %q must be exactly one byte", s)
		}
		return Literal{Value: cty.NumberIntVal(int64(body[0]))}, nil
	}

	v, err := cty.ParseNumberVal(s)
	if err != nil {
		return Literal{}, fmt.Errorf("not a valid literal: %q", s)
	}
	return Literal{Value: v}, nil
}

// parseEdgeShorthand splits "a -> b" into its two endpoints.
func parseEdgeShorthand(raw string) (string, string, error) {
	parts := strings.SplitN(raw, "->", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("edge shorthand %q must be of the form \"a -> b\"", raw)
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), nil
}
