package prunetable

// Classify records which representation is in effect for every axis, both in
// datasets and in ts. The oracle reads only the copy held by ts.
//
// Permutation kind follows container occupancy. Orientation is complete only
// when the dense table is populated and the orientation domain is within the
// complete ceiling the set was built with; otherwise a populated partial map
// makes it partial.
func Classify(datasets []Dataset, ts *TableSet) {
	for i := range ts.groups {
		gt := &ts.groups[i]
		var k axisKinds
		switch {
		case len(gt.Permutation) > 0:
			k.perm = TableComplete
		case gt.PartialPermutation.Len() > 0:
			k.perm = TablePartial
		}
		switch {
		case len(gt.Orientation) > 0 && ts.plans[i].ori.complete:
			k.ori = TableComplete
		case gt.PartialOrientation.Len() > 0:
			k.ori = TablePartial
		}
		ts.kinds[i] = k
		if i < len(datasets) {
			datasets[i].PermTable = k.perm
			datasets[i].OriTable = k.ori
		}
	}
}
