package tablecanvas

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// fontKey uniquely identifies a font face by family, pixel size and weight.
type fontKey struct {
	name string
	size float64
	bold bool
}

// FontCache manages TrueType font loading and face caching.
// Generic CSS families resolve to the embedded Go fonts so output does not
// depend on the host; named families are searched in the system font
// directories and in any extra directories given to NewFontCache.
type FontCache struct {
	mu      sync.RWMutex
	dirs    []string                  // directories to search for fonts
	fonts   map[string]*opentype.Font // lowercase font name -> parsed font
	faces   *lru.Cache[fontKey, font.Face]
	scanned bool
}

// faceCacheSize bounds the number of sized faces kept alive. Every
// distinct (family, size x scale, weight) is one entry.
const faceCacheSize = 128

// builtin font names registered by every FontCache.
const (
	builtinSans     = "go"
	builtinSansBold = "go bold"
	builtinMono     = "go mono"
	builtinMonoBold = "go mono bold"
)

// genericFamilies maps CSS generic families to built-in fonts.
var genericFamilies = map[string]string{
	"sans-serif": builtinSans,
	"serif":      builtinSans,
	"system-ui":  builtinSans,
	"cursive":    builtinSans,
	"fantasy":    builtinSans,
	"monospace":  builtinMono,
}

// NewFontCache creates a FontCache that searches the given directories
// plus the OS default font directories.
func NewFontCache(extraDirs ...string) *FontCache {
	faces, err := lru.NewWithEvict(faceCacheSize, func(_ fontKey, f font.Face) {
		f.Close()
	})
	if err != nil {
		panic(fmt.Sprintf("create face cache: %v", err))
	}
	fc := &FontCache{
		dirs:  append(systemFontDirs(), extraDirs...),
		fonts: make(map[string]*opentype.Font),
		faces: faces,
	}
	for name, data := range map[string][]byte{
		builtinSans:     goregular.TTF,
		builtinSansBold: gobold.TTF,
		builtinMono:     gomono.TTF,
		builtinMonoBold: gomonobold.TTF,
	} {
		f, err := opentype.Parse(data)
		if err != nil {
			panic(fmt.Sprintf("parse built-in font %s: %v", name, err))
		}
		fc.fonts[name] = f
	}
	return fc
}

// Face returns a face for f scaled by scale. It never returns nil: unknown
// families fall back to the built-in sans font, and a face that cannot be
// built falls back to basicfont.
func (fc *FontCache) Face(f Font, scale float64) font.Face {
	size := f.Size * scale
	if size <= 0 {
		size = 1
	}
	key := fontKey{name: strings.ToLower(f.Family), size: size, bold: f.Bold}

	if face, ok := fc.faces.Get(key); ok {
		return face
	}

	otf := fc.resolve(f.Family, f.Bold)
	face, err := opentype.NewFace(otf, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}

	fc.faces.Add(key, face)
	return face
}

// resolve picks a parsed font for a CSS font-family list such as
// "Helvetica, Arial, sans-serif".
func (fc *FontCache) resolve(family string, bold bool) *opentype.Font {
	for _, name := range strings.Split(family, ",") {
		name = strings.ToLower(strings.Trim(strings.TrimSpace(name), `"'`))
		if name == "" {
			continue
		}
		if builtin, ok := genericFamilies[name]; ok {
			return fc.builtin(builtin, bold)
		}
		if f := fc.lookup(name, bold); f != nil {
			return f
		}
		fc.ensureScanned()
		if f := fc.lookup(name, bold); f != nil {
			return f
		}
	}
	return fc.builtin(builtinSans, bold)
}

func (fc *FontCache) builtin(name string, bold bool) *opentype.Font {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	if bold {
		return fc.fonts[name+" bold"]
	}
	return fc.fonts[name]
}

// lookup finds a parsed font by lowercase name, trying bold variants first.
func (fc *FontCache) lookup(lower string, bold bool) *opentype.Font {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	if bold {
		// Windows uses "arialbd", other systems "Arial Bold".
		for _, suffix := range []string{" bold", "bd", "b", "-bold"} {
			if f, ok := fc.fonts[lower+suffix]; ok {
				return f
			}
		}
	}
	return fc.fonts[lower]
}

// LoadFont loads a TrueType/OpenType font file and registers it under name.
// Returns an error if the file exceeds maxFontFileSize.
func (fc *FontCache) LoadFont(name string, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Size() > maxFontFileSize {
		return fmt.Errorf("font file too large: %d bytes (max %d)", info.Size(), maxFontFileSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return fc.LoadFontData(name, data)
}

// LoadFontData registers a TrueType/OpenType font from raw bytes.
func (fc *FontCache) LoadFontData(name string, data []byte) error {
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font %s: %w", name, err)
	}
	fc.mu.Lock()
	fc.fonts[strings.ToLower(name)] = f
	fc.registerByFamilyName(f)
	fc.mu.Unlock()
	return nil
}

func (fc *FontCache) ensureScanned() {
	fc.mu.RLock()
	scanned := fc.scanned
	fc.mu.RUnlock()
	if scanned {
		return
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()
	if fc.scanned {
		return
	}
	fc.scanned = true

	for _, dir := range fc.dirs {
		fc.scanDir(dir, 0)
	}
}

// maxFontScanDepth limits recursive directory traversal when scanning for fonts.
const maxFontScanDepth = 3

// maxFontFileSize limits the size of individual font files loaded into memory.
const maxFontFileSize = 20 << 20 // 20 MB

func (fc *FontCache) scanDir(dir string, depth int) {
	if depth > maxFontScanDepth {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			fc.scanDir(filepath.Join(dir, entry.Name()), depth+1)
			continue
		}
		lower := strings.ToLower(entry.Name())
		isTTC := strings.HasSuffix(lower, ".ttc") || strings.HasSuffix(lower, ".otc")
		isSingle := strings.HasSuffix(lower, ".ttf") || strings.HasSuffix(lower, ".otf")
		if !isTTC && !isSingle {
			continue
		}

		info, err := entry.Info()
		if err != nil || info.Size() > maxFontFileSize {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}

		base := strings.TrimSuffix(lower, filepath.Ext(lower))
		if isTTC {
			fc.loadCollection(data, base)
		} else if f, err := opentype.Parse(data); err == nil {
			if _, taken := fc.fonts[base]; !taken {
				fc.fonts[base] = f
			}
			fc.registerByFamilyName(f)
		}
	}
}

// loadCollection registers each font of a TTC/OTC collection by its
// family name, and the first one by file name.
func (fc *FontCache) loadCollection(data []byte, base string) {
	coll, err := opentype.ParseCollection(data)
	if err != nil {
		return
	}
	for i := 0; i < coll.NumFonts(); i++ {
		f, err := coll.Font(i)
		if err != nil {
			continue
		}
		if _, taken := fc.fonts[base]; i == 0 && !taken {
			fc.fonts[base] = f
		}
		fc.registerByFamilyName(f)
	}
}

// registerByFamilyName registers f under its family and full names. It
// never replaces the built-in fonts. Callers hold fc.mu.
func (fc *FontCache) registerByFamilyName(f *opentype.Font) {
	for _, id := range []sfnt.NameID{sfnt.NameIDFamily, sfnt.NameIDFull} {
		name, err := f.Name(nil, id)
		if err != nil || name == "" {
			continue
		}
		lower := strings.ToLower(name)
		switch lower {
		case builtinSans, builtinSansBold, builtinMono, builtinMonoBold:
			continue
		}
		fc.fonts[lower] = f
	}
}

// systemFontDirs returns OS-specific font directories.
func systemFontDirs() []string {
	switch runtime.GOOS {
	case "windows":
		windir := os.Getenv("WINDIR")
		if windir == "" {
			windir = `C:\Windows`
		}
		dirs := []string{filepath.Join(windir, "Fonts")}
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			dirs = append(dirs, filepath.Join(local, "Microsoft", "Windows", "Fonts"))
		}
		return dirs
	case "darwin":
		dirs := []string{"/System/Library/Fonts", "/Library/Fonts"}
		if home, _ := os.UserHomeDir(); home != "" {
			dirs = append(dirs, filepath.Join(home, "Library", "Fonts"))
		}
		return dirs
	default: // linux, freebsd, etc.
		dirs := []string{"/usr/share/fonts", "/usr/local/share/fonts"}
		if home, _ := os.UserHomeDir(); home != "" {
			dirs = append(dirs, filepath.Join(home, ".local", "share", "fonts"), filepath.Join(home, ".fonts"))
		}
		return dirs
	}
}
