// Package config loads the server settings from defaults, an optional config
// file, a dotenv file and MINDFLOW_-prefixed environment variables, and
// validates them. Bare variable names such as GROQ_API_KEY are honoured for
// older deployments.
package config
