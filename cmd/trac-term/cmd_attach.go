/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/toothbrush/trac-term/session"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

var attachUsage = strings.TrimSpace(`
Commands in this namespace upload, list and download attachments of whatever is open: the current
wiki page, or the current ticket.
`)

var (
	AttachDescription string
	DownloadDir       string
)

var attachCmd = &cobra.Command{
	Use:   "attach",
	Short: "Commands to work with attachments",
	Long:  attachUsage,
}

var attachPutCmd = &cobra.Command{
	Use:   "put FILE",
	Short: "Upload a file",
	Args:  cobra.ExactArgs(1),
	RunE: withSession(func(cmd *cobra.Command, args []string, c *session.Context) error {
		if err := c.Attach(args[0], AttachDescription); err != nil {
			return err
		}
		fmt.Printf("Attached %s\n", args[0])
		return nil
	}),
}

var attachListCmd = &cobra.Command{
	Use:   "list",
	Short: "List attachments",
	Args:  cobra.ExactArgs(0),
	RunE: withSession(func(cmd *cobra.Command, args []string, c *session.Context) error {
		names, err := c.Attachments()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Println("No attachments.")
		}
		for _, name := range names {
			fmt.Printf("  - %s\n", name)
		}
		return nil
	}),
}

var attachGetCmd = &cobra.Command{
	Use:   "get NAME",
	Short: "Download an attachment; an existing local file is never overwritten",
	Args:  cobra.ExactArgs(1),
	RunE: withSession(func(cmd *cobra.Command, args []string, c *session.Context) error {
		dir := DownloadDir
		if dir == "" {
			wd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("attach: couldn't find working directory: %w", err)
			}
			dir = wd
		}

		bar := &progressBar{name: args[0]}
		dst, err := c.Download(args[0], dir, bar.sink)
		bar.wait(err)
		if err != nil {
			return err
		}
		fmt.Printf("Downloaded %s\n", dst)
		return nil
	}),
}

// progressBar shows the download being written to disk.
type progressBar struct {
	name string
	p    *mpb.Progress
	bar  *mpb.Bar
}

func (pb *progressBar) sink(dst io.Writer, size int64) io.Writer {
	if size <= 0 || NoColor {
		return dst
	}

	pb.p = mpb.New(mpb.WithWidth(64))
	pb.bar = pb.p.AddBar(size,
		mpb.PrependDecorators(
			// display our name with one space on the right
			decor.Name(fmt.Sprintf("%s:", pb.name),
				decor.WC{C: decor.DindentRight | decor.DextraSpace}),
		),
		mpb.AppendDecorators(
			decor.CountersKibiByte("% .1f / % .1f "),
			decor.NewPercentage("%d"),
		),
	)
	return pb.bar.ProxyWriter(dst)
}

// wait flushes the bar; a failed download leaves it incomplete, so it's aborted first.
func (pb *progressBar) wait(err error) {
	if pb.p == nil {
		return
	}
	if err != nil {
		pb.bar.Abort(false)
	}
	pb.p.Wait()
}

func init() {
	rootCmd.AddCommand(attachCmd)
	attachCmd.AddCommand(attachPutCmd)
	attachCmd.AddCommand(attachListCmd)
	attachCmd.AddCommand(attachGetCmd)

	attachPutCmd.Flags().StringVarP(&AttachDescription, "description", "d", "", "attachment description (tickets only)")
	attachGetCmd.Flags().StringVar(&DownloadDir, "dir", "", "directory to save to (default: the working directory)")
}
