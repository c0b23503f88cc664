// Pressfeed - WordPress News Feed and Related Content Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pressfeed

/*
Package config provides layered configuration for Pressfeed using Koanf v2.

Sources, lowest to highest priority:

 1. Built-in defaults (defaultConfig)
 2. YAML file: $CONFIG_PATH, ./config.yaml, ./config.yml, /etc/pressfeed/config.yaml
 3. Environment variables, through an explicit mapping table

Example config.yaml:

	wordpress:
	  url: https://www.duplos.cl
	  api_path: /wp-json/wp/v2
	  page_size: 10
	feed:
	  related_limit: 3
	  session_idle_ttl: 30m
	security:
	  cors_origins:
	    - https://www.duplos.cl

Environment variables that are not in the mapping table are ignored, so
unrelated variables never leak into the configuration. Slice fields such as
CORS_ORIGINS accept comma-separated values.
*/
package config
