package cli

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort          = "Keep a Minetest content collection in sync with a manifest"
	MsgVersionShort       = "Print version information"
	MsgVersionLong        = "Print detailed version information including commit hash and build date"
	MsgUpdateShort        = "Clone, download or refresh every declared package"
	MsgSyncShort          = "Link collection packages into an install directory"
	MsgSyncDevShort       = "Link development packages into the collection"
	MsgCreateConfigShort  = "Create an empty manifest"
	MsgCreateConfigLong   = "Create-config writes an empty manifest. An existing file is never overwritten."
	MsgAddPackageShort    = "Declare a package in the manifest"
	MsgRemovePackageShort = "Remove a package from the manifest"
	MsgRemovePackageLong  = "Remove-package drops a declaration from the manifest. The package folder is left in the collection and shows up as an orphan on the next update."
	MsgSettingsShort      = "Print the effective tool settings"
	MsgExplainShort       = "Explain the manifest format"
	MsgCompletionShort    = "Generate shell completion script"
	MsgManShort           = "Generate the man page"

	// Status messages
	MsgManifestCreated = "Created %s"
	MsgSchemaCreated   = "Created %s"
	MsgPackageAdded    = "Added %s to %s (folder %s)"
	MsgPackageRemoved  = "Removed %s from %s"

	// Version output
	MsgVersionFormat = "mtcollect version %s\n"
	MsgCommitFormat  = "Commit: %s\n"
	MsgBuiltFormat   = "Built:  %s\n"

	// Flag descriptions
	MsgFlagVerbose         = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagFormat          = "Output format: auto, term, text, json or yaml"
	MsgFlagSettings        = "Settings file (default ~/.config/mtcollect/config.toml)"
	MsgFlagSchema          = "Also write config_schema.json next to the manifest"
	MsgFlagAutoSort        = "Keep the manifest sorted on every change"
	MsgFlagBranch          = "Git branch to track"
	MsgFlagFolderName      = "Folder name inside the category"
	MsgFlagSort            = "Sort the manifest after adding"
	MsgFlagSettingsDefault = "Print the commented default settings file"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/update-long.txt
	msgUpdateLongRaw string
	MsgUpdateLong    = strings.TrimSpace(msgUpdateLongRaw)

	//go:embed msgs/update-example.txt
	msgUpdateExampleRaw string
	MsgUpdateExample    = strings.TrimRight(msgUpdateExampleRaw, "\n")

	//go:embed msgs/sync-long.txt
	msgSyncLongRaw string
	MsgSyncLong    = strings.TrimSpace(msgSyncLongRaw)

	//go:embed msgs/sync-dev-long.txt
	msgSyncDevLongRaw string
	MsgSyncDevLong    = strings.TrimSpace(msgSyncDevLongRaw)

	//go:embed msgs/add-package-long.txt
	msgAddPackageLongRaw string
	MsgAddPackageLong    = strings.TrimSpace(msgAddPackageLongRaw)

	//go:embed msgs/add-package-example.txt
	msgAddPackageExampleRaw string
	MsgAddPackageExample    = strings.TrimRight(msgAddPackageExampleRaw, "\n")

	//go:embed msgs/settings-long.txt
	msgSettingsLongRaw string
	MsgSettingsLong    = strings.TrimSpace(msgSettingsLongRaw)
)
