package main

import (
	"fmt"
	"os"

	"github.com/hangarhq/hangar/pkg/client"
	"github.com/hangarhq/hangar/pkg/types"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply a configuration file",
	Long: `Apply a hangar resource from a YAML file.

Examples:
  # Register a model
  hangar apply -f model.yaml

  # Record a completed training session
  hangar apply -f session.yaml`,
	RunE: runApply,
}

func init() {
	applyCmd.Flags().StringP("file", "f", "", "YAML file to apply (required)")
	_ = applyCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(applyCmd)
}

// HangarResource represents a generic hangar resource
type HangarResource struct {
	APIVersion string                 `yaml:"apiVersion"`
	Kind       string                 `yaml:"kind"`
	Metadata   ResourceMetadata       `yaml:"metadata"`
	Spec       map[string]interface{} `yaml:"spec"`
}

type ResourceMetadata struct {
	Name   string            `yaml:"name"`
	Labels map[string]string `yaml:"labels,omitempty"`
}

func runApply(cmd *cobra.Command, args []string) error {
	filename, _ := cmd.Flags().GetString("file")

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file: %v", err)
	}

	var resource HangarResource
	if err := yaml.Unmarshal(data, &resource); err != nil {
		return fmt.Errorf("failed to parse YAML: %v", err)
	}

	c := apiClient(cmd)

	switch resource.Kind {
	case "Model":
		return applyModel(cmd, c, &resource)
	case "TrainingSession":
		return applySession(cmd, c, &resource)
	default:
		return fmt.Errorf("unsupported resource kind: %s", resource.Kind)
	}
}

func applyModel(cmd *cobra.Command, c *client.Client, resource *HangarResource) error {
	name := resource.Metadata.Name
	if name == "" {
		return fmt.Errorf("model name is required")
	}

	fmt.Printf("Registering model: %s\n", name)
	model, err := c.RegisterModel(cmd.Context(), &types.ModelRegistryEntry{
		Name:        name,
		ServiceType: types.ServiceType(getString(resource.Spec, "serviceType", "prediction")),
		ModelType:   getString(resource.Spec, "modelType", ""),
		Framework:   getString(resource.Spec, "framework", "sklearn"),
		Version:     getString(resource.Spec, "version", "1.0.0"),
	})
	if err != nil {
		return fmt.Errorf("failed to register model: %v", err)
	}

	fmt.Printf("✓ Model registered: %s (ID: %s)\n", model.Name, model.ID)
	return nil
}

func applySession(cmd *cobra.Command, c *client.Client, resource *HangarResource) error {
	modelID := getString(resource.Spec, "modelId", "")
	if modelID == "" {
		return fmt.Errorf("session modelId is required")
	}

	fmt.Printf("Creating training session for model: %s\n", modelID)
	session, err := c.CreateSession(cmd.Context(), &types.TrainingSession{
		ModelID: modelID,
	})
	if err != nil {
		return fmt.Errorf("failed to create session: %v", err)
	}
	fmt.Printf("✓ Training session created: %s\n", session.ID)

	// A spec with artifacts describes an already-finished run
	artifacts := getStringMap(resource.Spec, "artifacts")
	if len(artifacts) == 0 {
		return nil
	}

	completed, err := c.CompleteSession(cmd.Context(), session.ID, client.SessionResult{
		Accuracy:      getFloat(resource.Spec, "accuracy", 0),
		TrainingTime:  getFloat(resource.Spec, "trainingTime", 0),
		DataSize:      int64(getInt(resource.Spec, "dataSize", 0)),
		ArtifactPaths: artifacts,
	})
	if err != nil {
		return fmt.Errorf("failed to complete session: %v", err)
	}

	fmt.Printf("✓ Training session completed: %s (accuracy=%.4f)\n", completed.ID, completed.Accuracy)
	return nil
}

// Helper functions
func getString(m map[string]interface{}, key, defaultValue string) string {
	if v, ok := m[key]; ok {
		return fmt.Sprintf("%v", v)
	}
	return defaultValue
}

func getInt(m map[string]interface{}, key string, defaultValue int) int {
	if v, ok := m[key]; ok {
		switch val := v.(type) {
		case int:
			return val
		case float64:
			return int(val)
		}
	}
	return defaultValue
}

func getFloat(m map[string]interface{}, key string, defaultValue float64) float64 {
	if v, ok := m[key]; ok {
		switch val := v.(type) {
		case float64:
			return val
		case int:
			return float64(val)
		}
	}
	return defaultValue
}

func getStringMap(m map[string]interface{}, key string) map[string]string {
	out := make(map[string]string)
	if sub, ok := m[key].(map[string]interface{}); ok {
		for k, v := range sub {
			out[k] = fmt.Sprintf("%v", v)
		}
	}
	return out
}
