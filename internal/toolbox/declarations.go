package toolbox

import "github.com/Cyclone1070/rofs/internal/tool"

var (
	pathParam             = tool.String("Directory to operate in, relative to the root. Defaults to the root.")
	includeHiddenParam    = tool.Boolean("Include entries whose name starts with a dot.", false)
	followSymlinksParam   = &tool.Schema{Type: tool.TypeBoolean, Description: "Follow symlinks that stay inside the root. Defaults to the configured value."}
	respectGitignoreParam = &tool.Schema{Type: tool.TypeBoolean, Description: "Skip paths excluded by .gitignore files. Defaults to the configured value."}
	offsetParam           = tool.Integer("Number of results to skip.", 0)
	limitParam            = tool.Integer("Maximum number of results to return. Defaults to the configured limit.", 1)
)

var globDeclaration = tool.Declaration{
	Name: "glob",
	Description: "List files and directories whose path relative to the search directory matches a glob pattern. " +
		"Supports *, **, ?, [...] and {a,b}. Results are depth-first with directories before files. " +
		"Give pattern, patterns or both; an entry matched by several patterns is listed once.",
	Parameters: tool.Object(nil, map[string]*tool.Schema{
		"pattern":           tool.String("Glob pattern, e.g. **/*.go"),
		"patterns":          tool.Array("Additional glob patterns.", tool.String("Glob pattern")),
		"path":              pathParam,
		"ignore_case":       tool.Boolean("Match case-insensitively.", false),
		"include_hidden":    includeHiddenParam,
		"max_depth":         tool.Integer("Maximum depth below the search directory; direct children are depth 1.", 0),
		"follow_symlinks":   followSymlinksParam,
		"respect_gitignore": respectGitignoreParam,
		"offset":            offsetParam,
		"limit":             limitParam,
	}),
}

var grepDeclaration = tool.Declaration{
	Name: "grep",
	Description: "Search file contents with a regular expression (RE2 syntax). " +
		"Returns one match per matching line. Binary and oversized files are skipped and reported as warnings.",
	Parameters: tool.Object([]string{"pattern"}, map[string]*tool.Schema{
		"pattern":              tool.String("Regular expression to search for."),
		"path":                 pathParam,
		"glob":                 tool.String("Glob restricting which files are searched. Defaults to all files."),
		"globs":                tool.Array("Additional globs; a file is searched when any glob selects it.", tool.String("Glob pattern")),
		"ignore_case":          tool.Boolean("Match case-insensitively.", false),
		"max_matches_per_file": tool.Integer("Stop after this many matches in one file; 0 means unbounded.", 0),
		"context_lines":        tool.Integer("Lines of context before and after each match.", 0),
		"include_hidden":       includeHiddenParam,
		"follow_symlinks":      followSymlinksParam,
		"respect_gitignore":    respectGitignoreParam,
		"offset":               offsetParam,
		"limit":                limitParam,
	}),
}

// A negative glance depth is allowed, so there is no minimum.
var glanceDepthParam = &tool.Schema{
	Type: tool.TypeInteger,
	Description: "Depth of the tree; 0 shows only the directory itself. A negative value asks for the deepest tree " +
		"the configuration allows, which is unbounded when max_glance_depth is -1.",
}

var glanceDeclaration = tool.Declaration{
	Name: "glance",
	Description: "Show a condensed tree of a directory with entry kinds and file sizes. " +
		"Large directories are cut off with a count of omitted entries.",
	Parameters: tool.Object(nil, map[string]*tool.Schema{
		"path":                pathParam,
		"max_depth":           glanceDepthParam,
		"max_entries_per_dir": tool.Integer("Maximum children listed per directory; 0 means unbounded.", 0),
		"include_hidden":      includeHiddenParam,
		"follow_symlinks":     followSymlinksParam,
		"respect_gitignore":   respectGitignoreParam,
	}),
}

var viewDeclaration = tool.Declaration{
	Name: "view",
	Description: "Read a window of lines from a text file. line_offset is 0-based. " +
		"An offset past the end of the file returns no lines. Binary files are refused.",
	Parameters: tool.Object([]string{"path"}, map[string]*tool.Schema{
		"path":        tool.String("File to read, relative to the root."),
		"line_offset": tool.Integer("Number of lines to skip from the start of the file.", 0),
		"line_count":  tool.Integer("Number of lines to return. Defaults to the configured window size.", 1),
	}),
}
