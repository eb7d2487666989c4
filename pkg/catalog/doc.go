// Package catalog provides the built-in service question graphs and a loader
// for graphs authored as YAML files.
package catalog
