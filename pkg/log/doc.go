/*
Package log provides structured logging for hangar built on zerolog.

A single global logger is initialized once at startup and components
derive child loggers with stable fields, so every line carries enough
context to be filtered without parsing the message.

# Usage

Initialize once in main:

	log.Init(log.Config{
		Level:      log.InfoLevel,
		JSONOutput: true,
	})

Derive component loggers:

	logger := log.WithComponent("manager")
	logger.Info().Str("deployment", name).Msg("deployment published")

Field helpers exist for the common correlation keys: WithComponent,
WithDeployment, WithModelID, WithSessionID.

# Output Formats

Console output (default) is human-readable with RFC3339 timestamps;
JSON output is for log aggregation. Both carry the same fields.

# Conventions

  - component: which subsystem wrote the line
  - deployment, model_id, session_id: correlation keys
  - Messages are lowercase, short, and stable enough to alert on

# See Also

  - zerolog documentation: https://github.com/rs/zerolog
*/
package log
