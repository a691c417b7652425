package tool

import (
	"github.com/cloudwego/eino/schema"

	contractx "github.com/tanpawarit/Chative-Bearing-Assistant/agent/contract"
)

func Specs() []contractx.ToolSpec {
	designation := contractx.ToolParam{Name: "designation", Desc: "The bearing designation number", Required: true}

	return []contractx.ToolSpec{
		{
			Name: ToolSearchParts,
			Desc: "Search for bearing products by designation, category, or specifications",
			Params: []contractx.ToolParam{
				{Name: "query", Desc: "The search query to find bearing products", Required: true},
			},
		},
		{
			Name:   ToolGetPartByDesignation,
			Desc:   "Get specific bearing product by designation (e.g., 6205, 6305)",
			Params: []contractx.ToolParam{designation},
		},
		{
			Name:   ToolGetPartDimensions,
			Desc:   "Get bearing dimensions and specifications",
			Params: []contractx.ToolParam{designation},
		},
		{
			Name:   ToolGetPartPerformance,
			Desc:   "Get bearing performance data (load ratings, speeds)",
			Params: []contractx.ToolParam{designation},
		},
		{
			Name: ToolCompareParts,
			Desc: "Compare two bearing products",
			Params: []contractx.ToolParam{
				{Name: "designationA", Desc: "First bearing designation", Required: true},
				{Name: "designationB", Desc: "Second bearing designation", Required: true},
			},
		},
	}
}

// ToolInfos renders specs for eino chat models.
func ToolInfos(specs []contractx.ToolSpec) []*schema.ToolInfo {
	infos := make([]*schema.ToolInfo, 0, len(specs))
	for _, spec := range specs {
		params := make(map[string]*schema.ParameterInfo, len(spec.Params))
		for _, p := range spec.Params {
			params[p.Name] = &schema.ParameterInfo{Type: schema.String, Desc: p.Desc, Required: p.Required}
		}
		infos = append(infos, &schema.ToolInfo{
			Name:        spec.Name,
			Desc:        spec.Desc,
			ParamsOneOf: schema.NewParamsOneOfByParams(params),
		})
	}
	return infos
}
