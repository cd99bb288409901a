// Package parser reads Swagger 2.0 and OpenAPI 3.x documents and turns
// them into mockable endpoints backed by the validated schema model.
//
// Swagger 2.0 documents decode directly through yaml.v3; OpenAPI 3.x
// documents go through the kin-openapi loader. Both converge on one raw
// form that is checked for unresolvable references and reference cycles
// (the cycle error names the chain of definitions that closes it) before
// any schema is constructed. The resulting Document doubles as the
// reference resolver for the generation engine.
package parser
