// Package harrow is the Composition Root for the harrow toolchain.
//
// It connects the core document model (Domain Layer) with the
// infrastructure adapters (Persistence Layer) using the Hexagonal
// Architecture pattern.
//
// Philosophy:
//
// Harrow treats a directory of Markdown documents with YAML frontmatter
// as a curated knowledge corpus and keeps it honest. The corpus layer
// gives transactional reads and writes over the filesystem (with
// optional Git versioning), while the lint layer enforces the corpus
// contract: well-formed frontmatter, a closed tag taxonomy, resolvable
// internal links, and citations that match declared sources.
//
// Features:
//
//   - **Hexagonal Architecture**: Core domain is isolated from persistence details.
//   - **Transactional Safe**: Atomic writes and Git commits per operation.
//   - **Metadata First**: Native frontmatter parsing, typed access, and indexing.
//   - **Compliance Engine**: Pluggable lint rules over a whole-corpus view.
//   - **ExecPlans**: Scaffolded, compliance-checked execution plan documents.
//   - **Reactive**: Filesystem watching with Git-aware debounced events.
//
// Usage:
//
//	// Initialize service with functional options
//	svc, err := harrow.New("./docs",
//		harrow.WithAutoInit(true),
//		harrow.WithLogger(logger),
//	)
//
//	// Save a document
//	err = svc.SaveDocument(ctx, "topics/context-windows", content, nil)
package harrow
