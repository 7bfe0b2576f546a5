package visualization

import (
	"strconv"
	"strings"

	"github.com/ldoney/CMS-ML-MASS/pkg/run"
)

// NewDescriptorTable lays out a run descriptor as key/value rows.
// Hyperparameters of disabled methods are not shown.
func NewDescriptorTable(d *run.Descriptor) *Table {
	cut := d.SelectionCut
	if cut == "" {
		cut = "(none)"
	}
	data := [][]string{
		{"methods", d.Methods.String()},
		{"variables", strings.Join(d.Expressions(), ", ")},
		{"cut", cut},
		{"numSignalTrain", strconv.Itoa(d.TrainSignal)},
		{"numBackgroundTrain", strconv.Itoa(d.TrainBackground)},
		{"numSignalTest", strconv.Itoa(d.TestSignal)},
		{"numBackgroundTest", strconv.Itoa(d.TestBackground)},
	}
	if d.BackgroundWeight != "" {
		data = append(data, []string{"backgroundWeight", d.BackgroundWeight})
	}
	if d.BDTG != nil && d.ContainsMethod(run.BDTG) {
		data = append(data,
			[]string{"numTrees", strconv.Itoa(d.BDTG.TreeCount)},
			[]string{"maxDepth", strconv.Itoa(d.BDTG.MaxDepth)},
		)
	}
	if d.DNN != nil && d.ContainsMethod(run.DNN) {
		data = append(data,
			[]string{"numLayers", strconv.Itoa(d.DNN.LayerCount)},
			[]string{"convergenceSteps", strconv.Itoa(d.DNN.ConvergenceSteps)},
			[]string{"layerString", d.DNN.LayerSpec},
			[]string{"learningRate", d.DNN.LearningRate},
		)
	}
	data = append(data, []string{"outcome", d.Outcome.String()})
	return NewTable([]string{"Field", "Value"}, data)
}
