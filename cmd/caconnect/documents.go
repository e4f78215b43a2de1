package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Logesh-Devops/caconnect-clientui/internal/nav"
	"github.com/Logesh-Devops/caconnect-clientui/pkg/cache"
	"github.com/Logesh-Devops/caconnect-clientui/pkg/models"
	"github.com/Logesh-Devops/caconnect-clientui/pkg/tree"
)

func cmdDocuments(args []string) {
	sub := "list"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		sub, args = args[0], args[1:]
	}

	ctx := context.Background()
	a := newApp(ctx)

	switch sub {
	case "list", "tree":
		fs := flag.NewFlagSet("documents "+sub, flag.ExitOnError)
		entity := fs.String("entity", "", "Entity id (defaults to the first entity)")
		fs.Parse(args)

		_, entityID := a.openTab(nav.TabDocuments, *entity)
		records, err := a.client.GetDocuments(ctx, entityID)
		if err != nil {
			fatal(err)
		}
		root := tree.Build(records)
		if sub == "tree" {
			printTree(root, "")
		} else {
			printChildren(root, fs.Arg(0))
		}

	case "mkdir":
		fs := flag.NewFlagSet("documents mkdir", flag.ExitOnError)
		entity := fs.String("entity", "", "Entity id (defaults to the first entity)")
		parent := fs.String("parent", "", "Parent folder id (root when omitted)")
		fs.Parse(args)
		if fs.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "Usage: caconnect documents mkdir [-parent id] <name>")
			os.Exit(2)
		}

		_, entityID := a.openTab(nav.TabDocuments, *entity)
		folder, err := a.client.CreateFolder(ctx, fs.Arg(0), entityID, *parent)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("Created folder %q (%s)\n", folder.Name, folder.ID)

	case "upload":
		fs := flag.NewFlagSet("documents upload", flag.ExitOnError)
		entity := fs.String("entity", "", "Entity id (defaults to the first entity)")
		folder := fs.String("folder", "", "Destination folder id (root when omitted)")
		fs.Parse(args)
		if fs.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "Usage: caconnect documents upload [-folder id] <file>")
			os.Exit(2)
		}

		_, entityID := a.openTab(nav.TabDocuments, *entity)
		f, err := os.Open(fs.Arg(0))
		if err != nil {
			fatal(err)
		}
		defer f.Close()

		doc, err := a.client.UploadFile(ctx, *folder, entityID, filepath.Base(fs.Arg(0)), f)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("Uploaded %q (%s)\n", doc.Name, doc.ID)

	case "rm":
		fs := flag.NewFlagSet("documents rm", flag.ExitOnError)
		entity := fs.String("entity", "", "Entity id (defaults to the first entity)")
		fs.Parse(args)
		if fs.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "Usage: caconnect documents rm <document-id>")
			os.Exit(2)
		}

		a.openTab(nav.TabDocuments, *entity)
		if err := a.client.DeleteDocument(ctx, fs.Arg(0)); err != nil {
			fatal(err)
		}
		if c, err := cache.New(a.cfg.CacheDir, a.cfg.MaxCacheSize); err == nil {
			c.Evict(fs.Arg(0))
		}
		fmt.Println("Deleted.")

	case "share":
		fs := flag.NewFlagSet("documents share", flag.ExitOnError)
		entity := fs.String("entity", "", "Entity id (defaults to the first entity)")
		email := fs.String("email", "", "Recipient email")
		fs.Parse(args)
		if fs.NArg() != 1 || *email == "" {
			fmt.Fprintln(os.Stderr, "Usage: caconnect documents share -email addr <document-id>")
			os.Exit(2)
		}

		a.openTab(nav.TabDocuments, *entity)
		if err := a.client.ShareDocument(ctx, fs.Arg(0), *email); err != nil {
			fatal(err)
		}
		fmt.Printf("Shared with %s.\n", *email)

	case "view":
		fs := flag.NewFlagSet("documents view", flag.ExitOnError)
		entity := fs.String("entity", "", "Entity id (defaults to the first entity)")
		out := fs.String("o", "", "Write to file instead of the cache path")
		fs.Parse(args)
		if fs.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "Usage: caconnect documents view [-o file] <document-id>")
			os.Exit(2)
		}

		a.openTab(nav.TabDocuments, *entity)
		a.viewDocument(ctx, fs.Arg(0), *out)

	case "path":
		fs := flag.NewFlagSet("documents path", flag.ExitOnError)
		entity := fs.String("entity", "", "Entity id (defaults to the first entity)")
		fs.Parse(args)
		if fs.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "Usage: caconnect documents path <document-id>")
			os.Exit(2)
		}

		_, entityID := a.openTab(nav.TabDocuments, *entity)
		records, err := a.client.GetDocuments(ctx, entityID)
		if err != nil {
			fatal(err)
		}
		path := tree.FindPath(tree.Build(records), fs.Arg(0))
		if path == nil {
			fmt.Fprintf(os.Stderr, "No document %q.\n", fs.Arg(0))
			os.Exit(1)
		}
		names := make([]string, len(path))
		for i, n := range path {
			names[i] = n.Name
		}
		fmt.Println("/" + strings.Join(names[1:], "/"))

	default:
		fmt.Fprintf(os.Stderr, "Unknown documents command: %s (want list|tree|mkdir|upload|rm|share|view|path)\n", sub)
		os.Exit(2)
	}
}

// viewDocument fetches a document body, serving it from the local cache when
// it is already there.
func (a *app) viewDocument(ctx context.Context, documentID, out string) {
	c, err := cache.New(a.cfg.CacheDir, a.cfg.MaxCacheSize)
	if err != nil {
		fatal(err)
	}

	local, ok := c.Get(documentID)
	if !ok {
		body, size, err := a.client.ViewFile(ctx, documentID)
		if err != nil {
			fatal(err)
		}
		defer body.Close()
		local, err = c.Put(documentID, body, size)
		if err != nil {
			fatal(err)
		}
	}

	if out == "" {
		fmt.Println(local)
		return
	}
	src, err := os.Open(local)
	if err != nil {
		fatal(err)
	}
	defer src.Close()
	dst, err := os.Create(out)
	if err != nil {
		fatal(err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		fatal(err)
	}
	fmt.Printf("Wrote %s\n", out)
}

// printChildren lists the immediate children of the folder with the given id,
// or of the root when the id is empty.
func printChildren(root *models.Entry, folderID string) {
	node := root
	if folderID != "" {
		if node = tree.FindByID(root, folderID); node == nil {
			fmt.Fprintf(os.Stderr, "No folder %q.\n", folderID)
			os.Exit(1)
		}
	}
	for _, child := range node.Children {
		kind := "file"
		if child.IsFolder {
			kind = "dir"
		}
		fmt.Printf("%-6s %-36s %s\n", kind, child.ID, child.Name)
	}
}

func printTree(node *models.Entry, indent string) {
	name := node.Name
	if node.IsFolder {
		name += "/"
	}
	fmt.Println(indent + name)
	for _, child := range node.Children {
		printTree(child, indent+"  ")
	}
}
