// Package utils provides common utility functions for the catalog service.
// It holds the loose type conversions used at the ingestion boundary, where vision
// output reports numbers as strings, floats or nothing at all.
package utils
