package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/mtcollect/internal/version"
	"github.com/arthur-debert/mtcollect/pkg/commands"
	"github.com/arthur-debert/mtcollect/pkg/config"
	"github.com/arthur-debert/mtcollect/pkg/errors"
	"github.com/arthur-debert/mtcollect/pkg/manifest"
	"github.com/arthur-debert/mtcollect/pkg/output"
	"github.com/arthur-debert/mtcollect/pkg/types"
)

func (a *app) newCreateConfigCmd() *cobra.Command {
	var schema, autoSort bool

	cmd := &cobra.Command{
		Use:   "create-config <path>",
		Short: MsgCreateConfigShort,
		Long:  MsgCreateConfigLong,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := commands.CreateConfig(commands.CreateConfigOptions{
				Path:     args[0],
				Schema:   schema,
				AutoSort: autoSort,
			})
			if err != nil {
				return err
			}

			r, err := a.renderer()
			if err != nil {
				return err
			}
			if result.SchemaPath != "" {
				if err := r.RenderMessage(fmt.Sprintf(MsgSchemaCreated, result.SchemaPath)); err != nil {
					return err
				}
			}
			return r.RenderMessage(fmt.Sprintf(MsgManifestCreated, result.ManifestPath))
		},
	}
	cmd.Flags().BoolVar(&schema, "schema", false, MsgFlagSchema)
	cmd.Flags().BoolVar(&autoSort, "auto-sort", false, MsgFlagAutoSort)
	return cmd
}

func (a *app) newAddPackageCmd() *cobra.Command {
	var branch, folderName string
	var sortManifest bool

	cmd := &cobra.Command{
		Use:               "add-package <path> <category> {git|cdb} <url>",
		Short:             MsgAddPackageShort,
		Long:              MsgAddPackageLong,
		Example:           MsgAddPackageExample,
		Args:              cobra.ExactArgs(4),
		ValidArgsFunction: completePackageArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			category, kind, err := parsePackageArgs(args[1], args[2])
			if err != nil {
				return err
			}

			ref, err := commands.AddPackage(cmd.Context(), commands.AddPackageOptions{
				ManifestPath: args[0],
				Category:     category,
				Kind:         kind,
				URL:          args[3],
				FolderName:   folderName,
				Branch:       branch,
				Sort:         sortManifest,
				Settings:     a.settings,
			})
			if err != nil {
				return err
			}

			r, err := a.renderer()
			if err != nil {
				return err
			}
			return r.RenderMessage(fmt.Sprintf(MsgPackageAdded, ref.URL, category, ref.Folder()))
		},
	}
	cmd.Flags().StringVar(&branch, "git-remote-branch", "", MsgFlagBranch)
	cmd.Flags().StringVar(&folderName, "folder-name", "", MsgFlagFolderName)
	cmd.Flags().BoolVar(&sortManifest, "sort", false, MsgFlagSort)
	return cmd
}

func (a *app) newRemovePackageCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "remove-package <path> <category> {git|cdb} <url>",
		Short:             MsgRemovePackageShort,
		Long:              MsgRemovePackageLong,
		Args:              cobra.ExactArgs(4),
		ValidArgsFunction: completePackageArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			category, kind, err := parsePackageArgs(args[1], args[2])
			if err != nil {
				return err
			}

			if err := commands.RemovePackage(commands.RemovePackageOptions{
				ManifestPath: args[0],
				Category:     category,
				Kind:         kind,
				URL:          args[3],
			}); err != nil {
				return err
			}

			r, err := a.renderer()
			if err != nil {
				return err
			}
			return r.RenderMessage(fmt.Sprintf(MsgPackageRemoved, args[3], category))
		},
	}
}

func (a *app) newUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "update <config_path> <collection_root>",
		Short:   MsgUpdateShort,
		Long:    MsgUpdateLong,
		Example: MsgUpdateExample,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			progress := output.NewProgress(a.stderr)
			report, err := commands.UpdateCollection(cmd.Context(), commands.UpdateCollectionOptions{
				ManifestPath:   args[0],
				CollectionRoot: args[1],
				Settings:       a.settings,
				Progress:       progress.Update,
			})
			progress.Stop()

			if report != nil {
				r, rerr := a.renderer()
				if rerr != nil {
					return rerr
				}
				if rerr := r.RenderRun(report); rerr != nil {
					return rerr
				}
			}
			if err != nil {
				return err
			}
			return runExit(report.Failed())
		},
	}
}

func (a *app) newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync <collection_root> <install_root>",
		Short: MsgSyncShort,
		Long:  MsgSyncLong,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := commands.Sync(commands.SyncOptions{
				CollectionRoot: args[0],
				InstallRoot:    args[1],
			})
			return a.finishSync(report, err)
		},
	}
}

func (a *app) newSyncDevCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync-dev <collection_root> <dev_root>",
		Short: MsgSyncDevShort,
		Long:  MsgSyncDevLong,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := commands.SyncDev(commands.SyncDevOptions{
				CollectionRoot: args[0],
				DevRoot:        args[1],
			})
			return a.finishSync(report, err)
		},
	}
}

// finishSync renders whatever was linked and picks the exit status.
func (a *app) finishSync(report *types.SyncReport, err error) error {
	if report != nil && len(report.Sections) > 0 {
		r, rerr := a.renderer()
		if rerr != nil {
			return rerr
		}
		if rerr := r.RenderSync(report); rerr != nil {
			return rerr
		}
	}
	if err != nil {
		return err
	}
	return syncExit(report.HasFailures(), report.HasConflicts())
}

func (a *app) newSettingsCmd() *cobra.Command {
	var defaults bool

	cmd := &cobra.Command{
		Use:   "settings",
		Short: MsgSettingsShort,
		Long:  MsgSettingsLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if defaults {
				_, err := cmd.OutOrStdout().Write(config.DefaultFile())
				return err
			}

			data, err := a.settings.TOML()
			if err != nil {
				return err
			}
			if a.settings.Source != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "# loaded from %s\n", a.settings.Source)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().BoolVar(&defaults, "defaults", false, MsgFlagSettingsDefault)
	return cmd
}

func (a *app) newExplainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explain",
		Short: MsgExplainShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return output.RenderMarkdown(cmd.OutOrStdout(), a.format, manifest.Guide())
		},
	}
}

func (a *app) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Long:  MsgVersionLong,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, MsgVersionFormat, version.Version)
			_, _ = fmt.Fprintf(out, MsgCommitFormat, version.Commit)
			_, _ = fmt.Fprintf(out, MsgBuiltFormat, version.Date)
		},
	}
}

func (a *app) newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: MsgCompletionShort,
		Long: `To load completions:

Bash:
  $ source <(mtcollect completion bash)

Zsh:
  $ mtcollect completion zsh > "${fpath[1]}/_mtcollect"

Fish:
  $ mtcollect completion fish | source

PowerShell:
  PS> mtcollect completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			var err error
			switch args[0] {
			case "bash":
				err = cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				err = cmd.Root().GenZshCompletion(out)
			case "fish":
				err = cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				err = cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			if err != nil {
				log.Error().Err(err).Str("shell", args[0]).Msg("Failed to generate completion")
			}
			return err
		},
	}
}

func (a *app) newManCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "man",
		Short:  MsgManShort,
		Args:   cobra.NoArgs,
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			header := &doc.GenManHeader{
				Title:   "MTCOLLECT",
				Section: "1",
				Source:  "mtcollect " + version.Version,
				Manual:  "mtcollect manual",
			}
			return doc.GenMan(cmd.Root(), header, cmd.OutOrStdout())
		},
	}
}

func parsePackageArgs(categoryArg, kindArg string) (types.Category, types.OriginKind, error) {
	category, err := types.ParseCategory(categoryArg)
	if err != nil {
		return "", "", errors.Wrap(err, errors.ErrInvalidInput, "invalid category")
	}
	kind, err := types.ParseOriginKind(kindArg)
	if err != nil {
		return "", "", errors.Wrap(err, errors.ErrInvalidInput, "invalid package type")
	}
	return category, kind, nil
}

// completePackageArgs completes the category and type positions of
// add-package and remove-package.
func completePackageArgs(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	switch len(args) {
	case 0:
		return []string{"json"}, cobra.ShellCompDirectiveFilterFileExt
	case 1:
		return types.CategoryNames(), cobra.ShellCompDirectiveNoFileComp
	case 2:
		return []string{string(types.OriginGit), string(types.OriginContentDB)}, cobra.ShellCompDirectiveNoFileComp
	default:
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
}
