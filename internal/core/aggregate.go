package core

// Aggregate sums female, male and total results per project. Projects appear
// in the order of their first row in rows.
func Aggregate(rows []ResultRecord) []AggregatedRow {
	index := make(map[string]int)
	out := make([]AggregatedRow, 0)
	for _, r := range rows {
		i, ok := index[r.ProjectNumber]
		if !ok {
			i = len(out)
			index[r.ProjectNumber] = i
			out = append(out, AggregatedRow{ProjectNumber: r.ProjectNumber})
		}
		out[i].FemaleResult += r.FemaleResult
		out[i].MaleResult += r.MaleResult
		out[i].TotalResult += r.TotalResult
	}
	return out
}
