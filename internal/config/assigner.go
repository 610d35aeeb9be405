package config

import (
	"os"
	"sync"
)

type AssignerConfig struct {
	// MemoryFile holds rotation memory (last assignments + learned scores).
	MemoryFile string
	// ModelFile holds the fitted linear model coefficients.
	ModelFile string
	// PredictorURL, when set, routes scoring through a remote predictor
	// service instead of the local model file.
	PredictorURL string
}

var (
	assignerConfig *AssignerConfig
	assignerOnce   sync.Once
)

func LoadAssignerConfig() *AssignerConfig {
	assignerOnce.Do(func() {
		memoryFile := os.Getenv("ORQUESTA_MEMORY_FILE")
		if memoryFile == "" {
			memoryFile = "orquesta_memory.json"
		}
		modelFile := os.Getenv("ORQUESTA_MODEL_FILE")
		if modelFile == "" {
			modelFile = "ml_model.json"
		}
		assignerConfig = &AssignerConfig{
			MemoryFile:   memoryFile,
			ModelFile:    modelFile,
			PredictorURL: os.Getenv("PREDICTOR_URL"),
		}
	})
	return assignerConfig
}
