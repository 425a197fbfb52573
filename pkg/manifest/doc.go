// Package manifest reads and writes the collection manifest, the JSON file
// declaring which packages belong in each category:
//
//	{
//	  "$schema": "./config_schema.json",
//	  "auto_sort": true,
//	  "content": {
//	    "mods": [{"type": "git", "url": "https://github.com/minetest-mods/i3"}],
//	    "client_mods": [],
//	    "games": [],
//	    "texture_packs": []
//	  }
//	}
//
// Files are validated against an embedded CUE schema before they are
// decoded, then checked for problems a schema cannot express such as two
// packages sharing a folder.
package manifest
