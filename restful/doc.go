// Package restful converts between natural nested resource paths and the
// mapping paths actions are resolved against.
//
// A natural path puts every id right after its resource name. The mapping
// path lists resource names first, split into words, then the ids:
//
//	/products/1/purchases/2/                 -> /products/purchases/1/2/
//	/ballet-dancers/1/greatest-products/2/   -> /ballet/dancers/greatest/products/1/2/
//
// The mapping path resolves to the camel-case action productsPurchases, or
// balletDancersGreatestProducts, whose execute receives the ids.
//
// Reverse conversion needs the action's hyphenate groups to rebuild the
// hyphenated names:
//
//	r := restful.NewNumericRouter()
//	path, err := r.ToReversePath(restful.ReverseResource{
//		ActionWords: []string{"ballet", "dancers", "greatest", "products"},
//		Hyphenate:   []string{"ballet-dancers", "greatest-products"},
//		Chain:       []restful.Segment{{Value: "1", Placeholder: true}, {Value: "2", Placeholder: true}},
//	})
//	// path == "/ballet-dancers/1/greatest-products/2/"
//
// NumericRouter recognizes ids by shape, PairRouter by position.
package restful
