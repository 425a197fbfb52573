// Package contentdb implements the ContentDB origin. Packages are located
// by their page URL (https://content.minetest.net/packages/<author>/<name>/),
// installed from the newest release zip, and refreshed when a newer
// release appears.
//
// Each installed package carries a .contentdb.json marker recording the
// release it was extracted from.
package contentdb
