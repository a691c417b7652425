package catalog

// SampleParts is the built-in catalog used when no data files load.
func SampleParts() []Part {
	return []Part{
		{
			ID:               "6205-pim-en-metric",
			Designation:      "6205",
			Title:            "6205",
			Category:         "Deep groove ball bearings",
			Taxonomy:         "Bearings Ball bearings Deep groove ball bearings",
			ShortDescription: "Deep groove ball bearing",
			Description: "Single row deep groove ball bearings are particularly versatile, have low friction and are optimized " +
				"for low noise and low vibration, which enables high rotational speeds. They accommodate radial and axial " +
				"loads in both directions, are easy to mount, and require less maintenance than many other bearing types.",
			Benefits: "Simple, versatile and robust design Low friction High-speed capability " +
				"Accommodate radial and axial loads in both directions Require little maintenance",
			System:   "metric",
			Language: "en",
			Source:   "pim",
			Dimensions: []Measurement{
				{Name: "Outside diameter", Value: Number(52), Unit: "mm", Symbol: "D"},
				{Name: "Bore diameter", Value: Number(25), Unit: "mm", Symbol: "d"},
				{Name: "Width", Value: Number(15), Unit: "mm", Symbol: "B"},
			},
			Properties: []Property{
				{Name: "Tolerance class", Value: "Class P6 (P6)"},
				{Name: "Material, bearing", Value: "Bearing steel"},
				{Name: "Relubrication feature", Value: "Without"},
				{Name: "Coating", Value: "Without"},
				{Name: "Lubricant", Value: "None"},
			},
			Performance: []Measurement{
				{Name: "Limiting speed", Value: Number(18000), Unit: "rmin", Symbol: "nlim"},
				{Name: "Basic static load rating", Value: Number(7.8), Unit: "kN", Symbol: "C0"},
				{Name: "Reference speed", Value: Number(28000), Unit: "rmin"},
				{Name: "SKF performance class", Value: Text("SKF Explorer")},
				{Name: "Basic dynamic load rating", Value: Number(14.8), Unit: "kN", Symbol: "C"},
			},
			Logistics: []Measurement{
				{Name: "Product net weight", Value: Number(0.125), Unit: "kg"},
				{Name: "Products per pack", Value: Text("1")},
			},
		},
		{
			ID:               "6305-pim-en-metric",
			Designation:      "6305",
			Title:            "6305",
			Category:         "Deep groove ball bearings",
			Taxonomy:         "Bearings Ball bearings Deep groove ball bearings",
			ShortDescription: "Deep groove ball bearing",
			Description:      "Medium series deep groove ball bearing with higher load capacity",
			Benefits:         "Higher load capacity Robust design Versatile application",
			System:           "metric",
			Language:         "en",
			Source:           "pim",
			Dimensions: []Measurement{
				{Name: "Outside diameter", Value: Number(62), Unit: "mm", Symbol: "D"},
				{Name: "Bore diameter", Value: Number(25), Unit: "mm", Symbol: "d"},
				{Name: "Width", Value: Number(17), Unit: "mm", Symbol: "B"},
			},
			Performance: []Measurement{
				{Name: "Basic dynamic load rating", Value: Number(22.5), Unit: "kN", Symbol: "C"},
				{Name: "Basic static load rating", Value: Number(11.5), Unit: "kN", Symbol: "C0"},
			},
		},
	}
}
