// Package config loads and saves the weft.json project configuration.
package config
