package api

import "html/template"

// ViewFuncs returns the helpers available to the HTML templates.
func ViewFuncs() template.FuncMap {
	return template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"derefInt": func(p *int) int {
			if p == nil {
				return 0
			}
			return *p
		},
		"hasInt": func(xs []int, x int) bool {
			for _, v := range xs {
				if v == x {
					return true
				}
			}
			return false
		},
	}
}
