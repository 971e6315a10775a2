package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NCBI RefSeq genomes FTP
const ncbiGenomesURL = "https://ftp.ncbi.nlm.nih.gov/genomes/all"

// knownAssemblies maps short names to full RefSeq assembly names.
var knownAssemblies = map[string]string{
	"bsubtilis":     "GCF_000009045.1_ASM904v1",
	"ecoli":         "GCF_000005845.2_ASM584v2",
	"mtuberculosis": "GCF_000195955.2_ASM19595v2",
	"scerevisiae":   "GCF_000146045.2_R64",
}

// assemblyName matches GCF_000005845.2_ASM584v2 and captures the FTP path parts.
var assemblyName = regexp.MustCompile(`^(GC[AF])_(\d{3})(\d{3})(\d{3})\.\d+_[\w.-]+$`)

// resolveAssembly accepts a short name or a full assembly name.
func resolveAssembly(name string) (string, error) {
	if full, ok := knownAssemblies[strings.ToLower(name)]; ok {
		return full, nil
	}
	if assemblyName.MatchString(name) {
		return name, nil
	}
	return "", fmt.Errorf("unknown assembly %q", name)
}

// assemblyURLs returns the GFF and FASTA URLs of a full assembly name.
func assemblyURLs(assembly string) (gffURL, fastaURL string) {
	m := assemblyName.FindStringSubmatch(assembly)
	dir := fmt.Sprintf("%s/%s/%s/%s/%s/%s", ncbiGenomesURL, m[1], m[2], m[3], m[4], assembly)
	gffURL = fmt.Sprintf("%s/%s_genomic.gff.gz", dir, assembly)
	fastaURL = fmt.Sprintf("%s/%s_genomic.fna.gz", dir, assembly)
	return
}

func knownAssemblyNames() string {
	names := make([]string, 0, len(knownAssemblies))
	for n := range knownAssemblies {
		names = append(names, n)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func newDownloadCmd() *cobra.Command {
	var (
		outputDir string
		gffOnly   bool
	)

	cmd := &cobra.Command{
		Use:   "download <assembly>",
		Short: "Download RefSeq annotation and genome files",
		Long: `Download the GFF3 annotation and genome FASTA of a RefSeq assembly, given a
short name (` + knownAssemblyNames() + `) or a full assembly
name such as GCF_000005845.2_ASM584v2.`,
		Example: `  genomenotebook download ecoli
  genomenotebook download GCF_000009045.1_ASM904v1 --output /data/genomes`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			assembly, err := resolveAssembly(args[0])
			if err != nil {
				return usageError{hintError{err, "Use one of " + knownAssemblyNames() + " or a GCF_/GCA_ assembly name"}}
			}

			if outputDir == "" {
				outputDir = viper.GetString("data_dir")
			}
			if outputDir == "" {
				return fmt.Errorf("cannot determine home directory, pass --output")
			}
			destDir := filepath.Join(outputDir, assembly)
			if err := os.MkdirAll(destDir, 0755); err != nil {
				return fmt.Errorf("cannot create directory %s: %w", destDir, err)
			}

			gffURL, fastaURL := assemblyURLs(assembly)
			fmt.Printf("Downloading %s...\n", assembly)
			fmt.Printf("Destination: %s\n\n", destDir)

			gffFile := filepath.Join(destDir, filepath.Base(gffURL))
			if err := downloadFile(gffURL, gffFile); err != nil {
				return fmt.Errorf("downloading GFF: %w", err)
			}
			fastaFile := filepath.Join(destDir, filepath.Base(fastaURL))
			if !gffOnly {
				if err := downloadFile(fastaURL, fastaFile); err != nil {
					return fmt.Errorf("downloading FASTA: %w", err)
				}
			}

			fmt.Printf("\nDownload complete!\n")
			fmt.Printf("To build a feature database, run:\n")
			if gffOnly {
				fmt.Printf("  genomenotebook import --db %s.duckdb --gff %s\n", assembly, gffFile)
			} else {
				fmt.Printf("  genomenotebook import --db %s.duckdb --gff %s --fasta %s\n", assembly, gffFile, fastaFile)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (default: data_dir, ~/.genomenotebook)")
	cmd.Flags().BoolVar(&gffOnly, "gff-only", false, "Only download the GFF annotation (skip the genome FASTA)")
	return cmd
}

// downloadFile downloads a file from URL to the destination path with progress.
func downloadFile(url, destPath string) error {
	// Check if file already exists
	if info, err := os.Stat(destPath); err == nil {
		fmt.Printf("  %s already exists (%s), skipping\n", filepath.Base(destPath), formatSize(info.Size()))
		return nil
	}

	fmt.Printf("  Downloading %s...\n", filepath.Base(destPath))

	client := &http.Client{
		Timeout: 30 * time.Minute,
	}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP error: %s", resp.Status)
	}

	tmpPath := destPath + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	pw := &progressWriter{
		out:       os.Stdout,
		total:     resp.ContentLength,
		lastPrint: time.Now(),
	}

	_, err = io.Copy(f, io.TeeReader(resp.Body, pw))
	f.Close()

	if err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("download failed: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename file: %w", err)
	}

	fmt.Printf("    Done: %s\n", formatSize(pw.downloaded))
	return nil
}

// progressWriter tracks download progress.
type progressWriter struct {
	out        io.Writer
	total      int64
	downloaded int64
	lastPrint  time.Time
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	n := len(p)
	pw.downloaded += int64(n)

	// Print progress every second
	if time.Since(pw.lastPrint) > time.Second {
		if pw.total > 0 {
			pct := float64(pw.downloaded) / float64(pw.total) * 100
			fmt.Fprintf(pw.out, "\r    Progress: %s / %s (%.1f%%)  ",
				formatSize(pw.downloaded), formatSize(pw.total), pct)
		} else {
			fmt.Fprintf(pw.out, "\r    Progress: %s  ", formatSize(pw.downloaded))
		}
		pw.lastPrint = time.Now()
	}

	return n, nil
}

// formatSize formats bytes as human-readable size.
func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
