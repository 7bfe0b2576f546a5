package visualization

import (
	"fmt"
	"io"
	"strconv"

	"github.com/ldoney/CMS-ML-MASS/pkg/aggregate"
	"github.com/ldoney/CMS-ML-MASS/pkg/run"
)

// BestMarker flags the selected run in a ranking table.
const BestMarker = "*"

var rankingHeaders = []string{"", "Run", "Methods", "Scored with", "ROC integral", "S overtrain", "B overtrain", "Outcome", "Summary"}

// NewRankingTable lays out every result of a ranking, failed runs included.
func NewRankingTable(ranking aggregate.Ranking) *Table {
	data := [][]string{}
	for _, result := range ranking.Results {
		marker := ""
		if !result.Failed && result.Index == ranking.Best.Index {
			marker = BestMarker
		}

		row := []string{marker, strconv.Itoa(result.Index), result.Descriptor.Methods.String()}
		if result.Failed {
			row = append(row, "-", "-", "-", "-")
		} else {
			row = append(row,
				string(result.Method),
				fmt.Sprintf("%.4f", result.ROCIntegral),
				fmt.Sprintf("%.4f", result.SignalOvertrainStat),
				fmt.Sprintf("%.4f", result.BackgroundOvertrainStat),
			)
		}
		row = append(row, result.Descriptor.Outcome.String(), result.Descriptor.Summary())
		data = append(data, row)
	}
	return NewTable(rankingHeaders, data)
}

// NewBestPerMethodTable lists the best run of each method.
func NewBestPerMethodTable(ranking aggregate.Ranking) *Table {
	data := [][]string{}
	for _, method := range run.AllMethods().Enabled() {
		best, ok := ranking.BestPerMethod[method]
		if !ok {
			continue
		}
		data = append(data, []string{string(method), strconv.Itoa(best.Index), fmt.Sprintf("%.4f", best.ROCIntegral)})
	}
	return NewTable([]string{"Method", "Run", "ROC integral"}, data)
}

// DrawRanking draws every run, the best run of each method and the
// descriptor of the selected run.
func DrawRanking(w io.Writer, ranking aggregate.Ranking) {
	DrawTable(w, NewRankingTable(ranking))
	perMethod := NewBestPerMethodTable(ranking)
	if perMethod.Rows() == 0 {
		return
	}
	fmt.Fprintln(w)
	DrawTable(w, perMethod)
	fmt.Fprintf(w, "\nBest run: %d\n", ranking.Best.Index)
	DrawTable(w, NewDescriptorTable(ranking.Best.Descriptor))
}
