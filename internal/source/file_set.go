package source

import (
	"fmt"
	"os"

	"fortio.org/safecast"
)

// FileID identifies a file within a FileSet.
type FileID uint32

// FileFlags records how the content was normalized on load.
type FileFlags uint8

const (
	FileVirtual FileFlags = 1 << iota // добавлен не с диска: буфер редактора или тест
	FileHadBOM
	FileNormalizedCRLF
)

// File is one source text with its newline index.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of '\n'
	Flags   FileFlags
}

// FileSet manages the files of one project. File IDs are stable: a file
// keeps its ID when its content is replaced.
type FileSet struct {
	files []File
	index map[string]FileID // path -> id
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0),
		index: make(map[string]FileID),
	}
}

// Add stores a file from normalized bytes, computes LineIdx, and returns its FileID.
// A path that is already present keeps its ID and gets the new content.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	normalizedPath := normalizePath(path)
	if id, ok := fileSet.index[normalizedPath]; ok {
		fileSet.Replace(id, content, flags)
		return id
	}

	lenFiles, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(lenFiles)
	fileSet.files = append(fileSet.files, NewFile(id, normalizedPath, content, flags))
	fileSet.index[normalizedPath] = id
	return id
}

// Replace swaps the content of an existing file in place.
func (fileSet *FileSet) Replace(id FileID, content []byte, flags FileFlags) {
	f := &fileSet.files[id]
	*f = NewFile(id, f.Path, content, flags)
}

// NewFile builds a File outside any FileSet. Parsers use it to lex new
// content under an existing ID without touching the set.
func NewFile(id FileID, path string, content []byte, flags FileFlags) File {
	return File{
		ID:      id,
		Path:    path,
		Content: content,
		LineIdx: buildLineIndex(content),
		Flags:   flags,
	}
}

// Load reads a file from disk, normalizes CRLF/BOM, and calls Add.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	content, flags := Normalize(content)
	return fileSet.Add(path, content, flags), nil
}

// Normalize strips a UTF-8 BOM and converts CRLF line endings.
func Normalize(content []byte) ([]byte, FileFlags) {
	content, hadBOM := removeBOM(content)
	content, hadCRLF := normalizeCRLF(content)

	flags := FileFlags(0)
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return content, flags
}

// Get returns the file metadata for the given ID.
func (fileSet *FileSet) Get(id FileID) *File {
	return &fileSet.files[id]
}

// Lookup is Get with a bounds check.
func (fileSet *FileSet) Lookup(id FileID) (*File, bool) {
	if int(id) >= len(fileSet.files) {
		return nil, false
	}
	return &fileSet.files[id], true
}

// Len returns the number of files.
func (fileSet *FileSet) Len() int {
	return len(fileSet.files)
}

// Files returns all files in ID order. Callers must not modify the slice.
func (fileSet *FileSet) Files() []File {
	return fileSet.files
}

// GetLatest returns the ID for the given path, if it exists.
func (fileSet *FileSet) GetLatest(path string) (FileID, bool) {
	id, ok := fileSet.index[normalizePath(path)]
	return id, ok
}

// PosAt converts a byte offset into a Pos.
func (f *File) PosAt(off uint32) Pos {
	lc := toLineCol(f.LineIdx, off)
	return Pos{File: f.ID, Offset: off, Line: lc.Line, Col: lc.Col}
}
