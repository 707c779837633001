package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/hangarhq/hangar/pkg/client"
	"github.com/hangarhq/hangar/pkg/types"
	"github.com/spf13/cobra"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "hangar",
	Short: "Hangar - ML model deployment manager",
	Long: `Hangar turns finished training runs into self-contained, servable
model deployments. Each deployment is a directory holding the model
artifacts, a generated serving script, a health-check script and a
JSON descriptor, published atomically and probed in the background.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"Hangar version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().String("server", "127.0.0.1:8420", "Address of the hangar server")

	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(deployCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(undeployCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(servingCmd)
	rootCmd.AddCommand(modelCmd)
	rootCmd.AddCommand(sessionCmd)
}

func apiClient(cmd *cobra.Command) *client.Client {
	addr, _ := cmd.Flags().GetString("server")
	return client.NewClient(addr)
}

// Deployment commands

var deployCmd = &cobra.Command{
	Use:   "deploy SESSION_ID",
	Short: "Deploy the artifacts of a completed training session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")

		result, err := apiClient(cmd).Deploy(cmd.Context(), args[0], name)
		if err != nil {
			return err
		}

		fmt.Printf("✓ Deployed '%s'\n", result.Name)
		fmt.Printf("  Path: %s\n", result.Path)
		if len(result.Endpoints) > 0 {
			fmt.Println("  Endpoints:")
			for _, ep := range result.Endpoints {
				fmt.Printf("    %-6s %s\n", ep.Method, ep.Path)
			}
		}
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List deployments",
	RunE: func(cmd *cobra.Command, args []string) error {
		deployments, err := apiClient(cmd).ListDeployments(cmd.Context())
		if err != nil {
			return err
		}

		if len(deployments) == 0 {
			fmt.Println("No deployments found")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tMODEL\tTYPE\tVERSION\tHEALTHY\tSIZE (MB)\tDEPLOYED")
		for _, d := range deployments {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\t%.2f\t%s\n",
				d.Name, d.ModelName, d.ServiceType, d.Version,
				d.IsHealthy, d.ModelSizeMB,
				d.DeployedAt.Format(time.RFC3339))
		}
		return w.Flush()
	},
}

var undeployCmd = &cobra.Command{
	Use:   "undeploy NAME",
	Short: "Remove a deployment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := apiClient(cmd).Undeploy(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("✓ Undeployed '%s'\n", args[0])
		return nil
	},
}

var healthCmd = &cobra.Command{
	Use:   "health NAME",
	Short: "Run an on-demand health check against a deployment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		verdict, err := apiClient(cmd).DeploymentHealth(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Deployment: %s\n", verdict.Deployment)
		fmt.Printf("Status:     %s\n", verdict.Status)
		fmt.Printf("Model:      loaded=%t\n", verdict.ModelLoaded)
		if verdict.Error != "" {
			fmt.Printf("Error:      %s\n", verdict.Error)
		}
		if !verdict.Healthy() {
			os.Exit(1)
		}
		return nil
	},
}

var servingCmd = &cobra.Command{
	Use:   "serving NAME [HEALTH_URL]",
	Short: "Register a live serving endpoint for a deployment",
	Long: `Register the health endpoint of a running serving process so health
probes hit it over HTTP instead of running the health-check script.
Pass --clear to revert to script probes.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		clearURL, _ := cmd.Flags().GetBool("clear")

		healthURL := ""
		if len(args) == 2 {
			healthURL = args[1]
		}
		if !clearURL && healthURL == "" {
			return fmt.Errorf("either HEALTH_URL or --clear is required")
		}

		cfg, err := apiClient(cmd).RegisterServing(cmd.Context(), args[0], healthURL)
		if err != nil {
			return err
		}

		if cfg.ServingConfig.HealthURL == "" {
			fmt.Printf("✓ Deployment '%s' reverted to script health checks\n", cfg.DeploymentName)
		} else {
			fmt.Printf("✓ Deployment '%s' now probed at %s\n", cfg.DeploymentName, cfg.ServingConfig.HealthURL)
		}
		return nil
	},
}

func init() {
	deployCmd.Flags().String("name", "", "Deployment name (defaults to <model>_<timestamp>)")
	servingCmd.Flags().Bool("clear", false, "Remove the registered serving endpoint")
}

// Model registry commands

var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Manage registered models",
}

var modelRegisterCmd = &cobra.Command{
	Use:   "register NAME",
	Short: "Register a model family",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		serviceType, _ := cmd.Flags().GetString("service-type")
		modelType, _ := cmd.Flags().GetString("model-type")
		framework, _ := cmd.Flags().GetString("framework")
		version, _ := cmd.Flags().GetString("model-version")

		model, err := apiClient(cmd).RegisterModel(cmd.Context(), &types.ModelRegistryEntry{
			Name:        args[0],
			ServiceType: types.ServiceType(serviceType),
			ModelType:   modelType,
			Framework:   framework,
			Version:     version,
		})
		if err != nil {
			return err
		}

		fmt.Printf("✓ Registered model '%s'\n", model.Name)
		fmt.Printf("  ID: %s\n", model.ID)
		return nil
	},
}

var modelListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered models",
	RunE: func(cmd *cobra.Command, args []string) error {
		models, err := apiClient(cmd).ListModels(cmd.Context())
		if err != nil {
			return err
		}

		if len(models) == 0 {
			fmt.Println("No models registered")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tTYPE\tFRAMEWORK\tVERSION\tDEPLOYED AS")
		for _, m := range models {
			deployed := "-"
			if m.Deployment != nil {
				deployed = m.Deployment.Name
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				m.ID, m.Name, m.ServiceType, m.Framework, m.Version, deployed)
		}
		return w.Flush()
	},
}

func init() {
	modelCmd.AddCommand(modelRegisterCmd)
	modelCmd.AddCommand(modelListCmd)

	modelRegisterCmd.Flags().String("service-type", "prediction", "Service type (prediction, classification, nlp, chatbot)")
	modelRegisterCmd.Flags().String("model-type", "", "Model type, e.g. random_forest")
	modelRegisterCmd.Flags().String("framework", "sklearn", "Training framework")
	modelRegisterCmd.Flags().String("model-version", "1.0.0", "Model version")
}

// Training session commands

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage training sessions",
}

var sessionCreateCmd = &cobra.Command{
	Use:   "create MODEL_ID",
	Short: "Record a new training session for a model",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := apiClient(cmd).CreateSession(cmd.Context(), &types.TrainingSession{
			ModelID: args[0],
		})
		if err != nil {
			return err
		}

		fmt.Printf("✓ Created training session %s\n", session.ID)
		return nil
	},
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List training sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		sessions, err := apiClient(cmd).ListSessions(cmd.Context())
		if err != nil {
			return err
		}

		if len(sessions) == 0 {
			fmt.Println("No training sessions found")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tMODEL\tSTATUS\tACCURACY\tARTIFACTS\tSTARTED")
		for _, s := range sessions {
			fmt.Fprintf(w, "%s\t%s\t%s\t%.4f\t%d\t%s\n",
				s.ID, s.ModelID, s.Status, s.Accuracy,
				len(s.ArtifactPaths), s.StartedAt.Format(time.RFC3339))
		}
		return w.Flush()
	},
}

var sessionCompleteCmd = &cobra.Command{
	Use:   "complete SESSION_ID",
	Short: "Mark a training session completed and record its artifacts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		accuracy, _ := cmd.Flags().GetFloat64("accuracy")
		trainingTime, _ := cmd.Flags().GetFloat64("training-time")
		dataSize, _ := cmd.Flags().GetInt64("data-size")
		artifacts, _ := cmd.Flags().GetStringToString("artifact")

		session, err := apiClient(cmd).CompleteSession(cmd.Context(), args[0], client.SessionResult{
			Accuracy:      accuracy,
			TrainingTime:  trainingTime,
			DataSize:      dataSize,
			ArtifactPaths: artifacts,
		})
		if err != nil {
			return err
		}

		fmt.Printf("✓ Completed training session %s\n", session.ID)
		fmt.Printf("  Accuracy: %.4f\n", session.Accuracy)
		fmt.Printf("  Artifacts: %d\n", len(session.ArtifactPaths))
		return nil
	},
}

func init() {
	sessionCmd.AddCommand(sessionCreateCmd)
	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionCompleteCmd)

	sessionCompleteCmd.Flags().Float64("accuracy", 0, "Validation accuracy of the trained model")
	sessionCompleteCmd.Flags().Float64("training-time", 0, "Training wall-clock time in seconds")
	sessionCompleteCmd.Flags().Int64("data-size", 0, "Number of training samples")
	sessionCompleteCmd.Flags().StringToString("artifact", nil, "Artifact path by type, e.g. --artifact model=/path/model.pkl")
	sessionCompleteCmd.MarkFlagRequired("artifact")
}
