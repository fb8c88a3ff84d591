package app

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/MisterPotz/eclipse-vscode-light-converter/internal/types"
)

// ParseModules splits every value on whitespace, so both a single quoted
// "a b c" argument and separate arguments are accepted.
func ParseModules(values ...string) []string {
	var modules []string
	for _, value := range values {
		modules = append(modules, strings.Fields(value)...)
	}
	return modules
}

// validateConvert checks every precondition of a conversion. Nothing is
// written before it succeeds.
func (s Service) validateConvert(req ConvertRequest) (ConvertRequest, error) {
	root, modules, err := normalizeTargets(req.ProjectRoot, req.Modules)
	if err != nil {
		return ConvertRequest{}, err
	}
	req.ProjectRoot = root
	req.Modules = modules
	req.Repository = strings.TrimSpace(req.Repository)
	req.CacheDir = strings.TrimSpace(req.CacheDir)

	switch req.Direction {
	case "":
		req.Direction = types.DirectionToCode
	case types.DirectionToCode, types.DirectionToEclipse:
	default:
		return ConvertRequest{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("unsupported direction: " + string(req.Direction))
	}

	if req.Direction == types.DirectionToCode {
		if req.Repository == "" {
			return ConvertRequest{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("repository (--p2) is required for " + string(types.DirectionToCode))
		}
		if req.CacheDir == "" {
			return ConvertRequest{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("cache directory (--cache-dir) is required for " + string(types.DirectionToCode))
		}
		if err := s.requirePool(req.Repository); err != nil {
			return ConvertRequest{}, err
		}
	}
	if req.Direction == types.DirectionToEclipse && req.CleanCache {
		return ConvertRequest{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("--clean-cache only applies to " + string(types.DirectionToCode))
	}
	if err := requireModuleDirs(req.ProjectRoot, req.Modules); err != nil {
		return ConvertRequest{}, err
	}
	return req, nil
}

func (s Service) validateResolve(req ResolveRequest) (ResolveRequest, error) {
	root, modules, err := normalizeTargets(req.ProjectRoot, req.Modules)
	if err != nil {
		return ResolveRequest{}, err
	}
	req.ProjectRoot = root
	req.Modules = modules
	req.Repository = strings.TrimSpace(req.Repository)
	req.CacheDir = strings.TrimSpace(req.CacheDir)
	if req.Repository == "" {
		return ResolveRequest{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("repository (--p2) is required")
	}
	if err := s.requirePool(req.Repository); err != nil {
		return ResolveRequest{}, err
	}
	if err := requireModuleDirs(req.ProjectRoot, req.Modules); err != nil {
		return ResolveRequest{}, err
	}
	return req, nil
}

func normalizeTargets(root string, modules []string) (string, []string, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return "", nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("project root is required")
	}
	modules = ParseModules(modules...)
	if len(modules) == 0 {
		return "", nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("at least one module is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid project root").
			WithCause(err)
	}
	if err := requireDir(abs, "project root"); err != nil {
		return "", nil, err
	}
	return abs, modules, nil
}

func (s Service) requirePool(repository string) error {
	return requireDir(filepath.Join(repository, filepath.FromSlash(s.layout().PoolDir)), "artifact pool")
}

func requireModuleDirs(root string, modules []string) error {
	for _, module := range modules {
		if filepath.IsAbs(module) {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("module path must be relative to the project root: " + module)
		}
		if err := requireDir(filepath.Join(root, module), "module directory"); err != nil {
			return err
		}
	}
	return nil
}

func requireDir(path string, what string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg(what + " not found: " + path).
				WithCause(err)
		}
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to stat " + what).
			WithCause(err)
	}
	if !info.IsDir() {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(what + " is not a directory: " + path)
	}
	return nil
}
