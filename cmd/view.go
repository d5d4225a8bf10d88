package cmd

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/pretextbook/pretext/internal/config"
	"github.com/pretextbook/pretext/internal/errors"
	"github.com/pretextbook/pretext/internal/preview"
	"github.com/spf13/cobra"
)

var (
	viewPrivate bool

	// viewResolver is replaced in tests
	viewResolver preview.Resolver = preview.SystemResolver{}
)

var viewCmd = &cobra.Command{
	Use:   "view [DIRECTORY]",
	Short: "Preview built PreTeXt documents in your browser",
	Long: `Starts a local server to preview built PreTeXt documents in your browser.
Use DIRECTORY to designate the folder with your built documents (defaults
to ` + "`output`" + `).

With --public, other computers on your local network can reach your
documents using your IP address. Previews are private by default.

Examples:
  pretext view                       # serve ./output on localhost:8000
  pretext view site --port 8080      # serve ./site on localhost:8080
  pretext view --public              # share on the local network
  pretext view --live-reload         # reload the browser when output changes`,
	Args: maxArgs(1),
	RunE: started(runView),
}

func init() {
	rootCmd.AddCommand(viewCmd)

	viewCmd.Flags().Bool("public", false, "Allow other computers on your network to view the documents")
	viewCmd.Flags().BoolVar(&viewPrivate, "private", false, "Only allow this computer to view the documents (default)")
	viewCmd.MarkFlagsMutuallyExclusive("public", "private")
	viewCmd.Flags().IntP("port", "p", config.DefaultPreviewPort, "Port for the local server")
	viewCmd.Flags().Bool("live-reload", false, "Reload the browser when served files change")

	AddFlagValidation(viewCmd, "port", ValidatePort)
}

func runView(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dir := cfg.Preview.Directory
	if len(args) > 0 {
		dir = args[0]
	}

	// Checked before any socket exists.
	if !preview.DirExists(dir) {
		return errors.NewEnhancedError("Nothing to preview", errors.ErrDirectoryMissing(dir),
			errors.DirectoryMissingSuggestions(dir))
	}

	public := cfg.Preview.Public && !viewPrivate
	binding := preview.ResolveBinding(public, cfg.Preview.Port, dir)

	srv := preview.NewServer(preview.Options{
		Binding:    binding,
		LiveReload: cfg.Preview.LiveReload,
		Logger:     logger,
	})
	if err := srv.Listen(); err != nil {
		return err
	}
	if tcp, ok := srv.Addr().(*net.TCPAddr); ok {
		binding.Port = tcp.Port
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Your documents may be previewed at %s\n", preview.AdvertisedURL(binding, viewResolver))
	fmt.Fprintln(out, "Use [Ctrl]+[C] to halt the server.")

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Serve(ctx)
}
