// Package training_tools provides MCP tools for Garmin Connect training
// metrics: race predictions, endurance and hill scores, fitness age, goals
// and personal records.
package training_tools
