package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/appforge-dev/appforge/internal/app"
	"github.com/appforge-dev/appforge/internal/appconfig"
	"github.com/appforge-dev/appforge/internal/deps"
	"github.com/appforge-dev/appforge/internal/extensions"
	"github.com/appforge-dev/appforge/internal/registry"
	"github.com/appforge-dev/appforge/internal/schema"
)

// DefaultConcurrency bounds concurrent extension resolution.
const DefaultConcurrency = 8

// DotenvFile is the name of the app's environment file.
const DotenvFile = ".env"

// Options configures Load.
type Options struct {
	Directory string
	// Registries resolve extension types. Defaults to registry.Default().
	Registries       *registry.Set
	Logger           *zap.Logger
	Concurrency      int
	DependencyReader app.DependencyReader
}

// entrySourceNames are tried in order for a UI extension's entry file.
var entrySourceNames = []string{"index.js", "index.jsx", "index.ts", "index.tsx"}

// Load builds the App for the project in opts.Directory.
func Load(ctx context.Context, opts Options) (*app.App, error) {
	l, err := newLoader(opts)
	if err != nil {
		return nil, err
	}
	return l.load(ctx)
}

type loader struct {
	dir         string
	registries  *registry.Set
	logger      *zap.Logger
	concurrency int
	readDeps    app.DependencyReader
	errors      *app.LoadErrors
}

func newLoader(opts Options) (*loader, error) {
	dir, err := filepath.Abs(opts.Directory)
	if err != nil {
		return nil, fmt.Errorf("resolving app directory %s: %w", opts.Directory, err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("reading app directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("app directory %s is not a directory", dir)
	}

	l := &loader{
		dir:         dir,
		registries:  opts.Registries,
		logger:      opts.Logger,
		concurrency: opts.Concurrency,
		readDeps:    opts.DependencyReader,
		errors:      app.NewLoadErrors(),
	}
	if l.logger == nil {
		l.logger = zap.NewNop()
	}
	if l.registries == nil {
		set, err := registry.Default(registry.WithLogger(l.logger))
		if err != nil {
			return nil, fmt.Errorf("building specification registries: %w", err)
		}
		l.registries = set
	}
	if l.concurrency <= 0 {
		l.concurrency = DefaultConcurrency
	}
	if l.readDeps == nil {
		l.readDeps = app.ReadNodeDependencies
	}
	return l, nil
}

func (l *loader) load(ctx context.Context) (*app.App, error) {
	configPath, err := appconfig.Find(l.dir)
	if err != nil {
		return nil, err
	}
	config, err := appconfig.Load(configPath)
	if err != nil {
		return nil, err
	}

	nodeDeps, err := l.readDeps(ctx, l.dir)
	if err != nil {
		return nil, fmt.Errorf("reading dependencies: %w", err)
	}
	pm, err := deps.DetectPackageManager(l.dir)
	if err != nil {
		return nil, fmt.Errorf("detecting package manager: %w", err)
	}
	workspaces, err := deps.UsesWorkspaces(l.dir)
	if err != nil {
		return nil, fmt.Errorf("detecting workspaces: %w", err)
	}

	fsys := os.DirFS(l.dir)
	candidates, err := discoverExtensions(fsys, l.dir, config.ExtensionDirectories)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("discovered extensions", zap.String("directory", l.dir), zap.Int("count", len(candidates)))

	resolved, err := l.resolveAll(ctx, candidates, nodeDeps)
	if err != nil {
		return nil, err
	}

	opts := app.Options{
		Name:              appName(config, l.dir),
		Directory:         l.dir,
		PackageManager:    pm,
		Configuration:     *config,
		ConfigurationPath: configPath,
		NodeDependencies:  nodeDeps,
		UsesWorkspaces:    workspaces,
		Errors:            l.errors,
		DependencyReader:  l.readDeps,
	}
	for _, r := range resolved {
		for _, e := range r.errs {
			l.errors.Add(r.path, e)
		}
		switch ext := r.ext.(type) {
		case *extensions.UIExtension:
			opts.UIExtensions = append(opts.UIExtensions, ext)
		case *extensions.ThemeExtension:
			opts.ThemeExtensions = append(opts.ThemeExtensions, ext)
		case *extensions.FunctionExtension:
			opts.FunctionExtensions = append(opts.FunctionExtensions, ext)
		}
	}

	opts.Webs = l.loadWebs(fsys, config.WebDirectories)
	opts.Dotenv = l.loadDotenv()

	a := app.New(opts)
	if !a.Errors().IsEmpty() {
		l.logger.Warn("app loaded with errors", zap.Int("errors", a.Errors().Len()))
	}
	return a, nil
}

// resolution is the outcome for one candidate. ext is nil when the extension
// was excluded.
type resolution struct {
	path string
	ext  extensions.Extension
	errs []error
}

// resolveAll resolves candidates concurrently; results keep candidate order.
func (l *loader) resolveAll(ctx context.Context, candidates []candidate, nodeDeps map[string]string) ([]resolution, error) {
	slots := make([]resolution, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, c := range candidates {
		g.Go(func() error {
			r, err := l.resolve(gctx, c, nodeDeps)
			if err != nil {
				return err
			}
			slots[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return slots, nil
}

// resolve turns one configuration file into an instance. The returned error
// is fatal (cancellation); everything else is recorded in the resolution.
func (l *loader) resolve(ctx context.Context, c candidate, nodeDeps map[string]string) (resolution, error) {
	r := resolution{path: c.path}
	fail := func(err error) (resolution, error) {
		r.errs = append(r.errs, err)
		return r, nil
	}

	raw, err := decodeFile(c.path, c.format)
	if err != nil {
		return fail(&app.ValidationError{Path: c.path, Category: c.category, Err: err})
	}

	typed, err := schema.ParseObject(extensions.TypeSchema, raw)
	if err != nil {
		return fail(&app.ValidationError{Path: c.path, Category: c.category, Err: err})
	}
	typ, _ := typed["type"].(string)

	res := l.registries.Lookup(ctx, c.category, typ)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return r, ctxErr
	}
	if res.Err != nil {
		r.errs = append(r.errs, &app.SpecificationLookupError{Category: c.category, Type: typ, Err: res.Err})
	}
	if !res.Found {
		return fail(&app.UnknownTypeError{Path: c.path, Category: c.category, Type: typ})
	}
	spec := res.Spec

	config, err := spec.ParseConfiguration(raw)
	if err != nil {
		return fail(&app.ValidationError{Path: c.path, Category: c.category, Err: err})
	}

	dir := filepath.Dir(c.path)
	inst := extensions.InstanceOptions{
		Configuration:       config,
		ConfigurationPath:   c.path,
		Directory:           dir,
		Specification:       spec,
		RemoteSpecification: res.Remote,
	}

	var ext extensions.Extension
	switch c.category {
	case extensions.CategoryUI:
		inst.EntryPath = findEntrySource(dir)
		ext, err = extensions.NewUIExtension(inst)
	case extensions.CategoryTheme:
		ext, err = extensions.NewThemeExtension(inst)
	case extensions.CategoryFunction:
		meta, metaPath, metaErr := readFunctionMetadata(dir)
		if metaErr != nil {
			r.path = metaPath
			return fail(&app.ValidationError{Path: metaPath, Category: c.category, Err: metaErr})
		}
		inst.Metadata = meta
		ext, err = extensions.NewFunctionExtension(inst)
	}
	if err != nil {
		return fail(&app.ValidationError{Path: c.path, Category: c.category, Err: err})
	}

	l.checkDependency(ext, nodeDeps)
	r.ext = ext
	return r, nil
}

// checkDependency warns when the extension's runtime package is missing or
// out of range. It never fails the load.
func (l *loader) checkDependency(ext extensions.Extension, nodeDeps map[string]string) {
	dep := ext.Specification().Dependency()
	if dep == nil {
		return
	}
	status, err := deps.Check(nodeDeps, dep.Name, dep.Version)
	if err != nil {
		l.logger.Warn("cannot check extension dependency",
			zap.String("extension", ext.LocalIdentifier()), zap.String("dependency", dep.Name), zap.Error(err))
		return
	}
	if status != deps.StatusSatisfied {
		l.logger.Warn("extension dependency not satisfied",
			zap.String("extension", ext.LocalIdentifier()),
			zap.String("dependency", dep.Name),
			zap.String("required", dep.Version),
			zap.String("declared", nodeDeps[dep.Name]),
			zap.String("status", string(status)))
	}
}

func (l *loader) loadWebs(fsys fs.FS, patterns []string) []app.Web {
	paths, err := discoverWebs(fsys, l.dir, patterns)
	if err != nil {
		l.errors.Add(l.dir, err)
		return nil
	}
	var webs []app.Web
	for _, p := range paths {
		cfg, err := appconfig.LoadWeb(p)
		if err != nil {
			l.errors.Add(p, err)
			continue
		}
		webs = append(webs, app.Web{Directory: filepath.Dir(p), ConfigurationPath: p, Configuration: *cfg})
	}
	return webs
}

func (l *loader) loadDotenv() *app.Dotenv {
	path := filepath.Join(l.dir, DotenvFile)
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		l.errors.Add(path, err)
		return nil
	}
	defer f.Close()

	env, err := gotenv.StrictParse(f)
	if err != nil {
		l.errors.Add(path, fmt.Errorf("parsing %s: %w", path, err))
		return nil
	}
	return &app.Dotenv{Path: path, Variables: env}
}

func findEntrySource(dir string) string {
	for _, name := range entrySourceNames {
		p := filepath.Join(dir, "src", name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// readFunctionMetadata parses metadata.json next to a function configuration.
// A missing file yields empty metadata.
func readFunctionMetadata(dir string) (extensions.FunctionMetadata, string, error) {
	path := filepath.Join(dir, "metadata.json")
	var meta extensions.FunctionMetadata
	raw, err := decodeFile(path, FormatJSON)
	if errors.Is(err, os.ErrNotExist) {
		return meta, path, nil
	}
	if err != nil {
		return meta, path, err
	}
	if err := schema.Decode(extensions.BaseFunctionMetadataSchema, raw, &meta); err != nil {
		return meta, path, err
	}
	return meta, path, nil
}

func appName(config *appconfig.Configuration, dir string) string {
	if config.Name != "" {
		return config.Name
	}
	if pkg, err := deps.ReadPackageJSON(dir); err == nil && pkg.Name != "" {
		return pkg.Name
	}
	return filepath.Base(dir)
}
