package extract

// importKinds lists, per grammar, the syntax-tree node kinds that can
// introduce an import. The walker only descends into subtree details for
// nodes of these kinds; everything else is traversed generically.
var importKinds = map[string]map[string]bool{
	"python": {
		"import_statement":      true,
		"import_from_statement": true,
	},
	"javascript": {
		"import_statement": true,
		"export_statement": true,
		"call_expression":  true,
	},
	"typescript": {
		"import_statement": true,
		"export_statement": true,
		"call_expression":  true,
	},
	"tsx": {
		"import_statement": true,
		"export_statement": true,
		"call_expression":  true,
	},
}
