package cmd

import (
	"github.com/etnz/cryptofolio/docs"
	"github.com/etnz/cryptofolio/importer"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion returns the shell completion of the cfl command line.
func Completion() *complete.Command {
	actions := predict.Set{"buy", "sell", "staking"}
	exchanges := predict.Set(importer.Exchanges())
	filters := map[string]complete.Predictor{
		"symbol":      predict.Something,
		"exchange":    exchanges,
		"action":      actions,
		"transaction": predict.Something,
		"year":        predict.Something,
	}
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"ledger-file": predict.Files("*.jsonl"),
			"store":       predict.Something,
			"format":      predict.Set{"term", "md", "html"},
			"log-level":   predict.Set{"debug", "info", "warn", "error"},
		},
		Sub: map[string]*complete.Command{
			"import": {
				Flags: map[string]complete.Predictor{
					"exchange": exchanges,
					"lenient":  predict.Nothing,
					"comma":    predict.Set{",", ";", "tab"},
				},
				Args: predict.Files("*.csv"),
			},
			"trades": {
				Flags: withFlags(filters, map[string]complete.Predictor{"desc": predict.Nothing}),
			},
			"remove": {Flags: filters},
			"profit": {
				Flags: map[string]complete.Predictor{
					"year":    predict.Something,
					"symbol":  predict.Something,
					"matches": predict.Nothing,
				},
			},
			"holdings":  {},
			"exchanges": {},
			"summary":   {},
			"topic":     {Args: topics()},
			"help":      {},
			"flags":     {},
			"commands":  {},
		},
	}
}

// withFlags merges flag predictors in a new map.
func withFlags(flags ...map[string]complete.Predictor) map[string]complete.Predictor {
	m := make(map[string]complete.Predictor)
	for _, f := range flags {
		for k, v := range f {
			m[k] = v
		}
	}
	return m
}

// topics predicts the documentation topics.
func topics() complete.Predictor {
	all, _ := docs.GetAllTopics()
	return predict.Set(all)
}
