package via

import (
	"strings"

	"cell-tracer/internal/project"
)

// ExtractVias collects the end vias of every routed segment whose via name
// starts with viaType. Nets are walked in document order and indices are
// assigned in that order, so they are unique and stable for a given document.
//
// The second result maps each net name to the indices of its vias. Nets
// without a matching via map to an empty slice.
func ExtractVias(nets []project.Net, viaType string) ([]Via, map[string][]int) {
	var vias []Via
	netToVia := make(map[string][]int, len(nets))

	for _, net := range nets {
		indices := []int{}
		for _, route := range net.Routes {
			if route.EndVia == "" || !strings.HasPrefix(route.EndVia, viaType) {
				continue
			}
			idx := len(vias)
			vias = append(vias, Via{
				Location: route.EndViaLoc,
				Name:     route.EndVia,
				Index:    idx,
				Net:      net.Name,
			})
			indices = append(indices, idx)
		}
		netToVia[net.Name] = indices
	}

	return vias, netToVia
}
