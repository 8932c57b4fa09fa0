package config

// Order pages are read in, decides which half of a spread goes left.
// ENUM(ltr, rtl)
type ReadingDirection int

// Requested output container.
// ENUM(dir, cbz)
type OutputFormat int

func (o OutputFormat) Ext() string {
	switch o {
	case OutputFormatDir:
		return ""
	case OutputFormatCbz:
		return ".cbz"
	default:
		// this should never happen
		panic("unsupported output format requested")
	}
}

// Page image encoding on output. Original keeps source bytes
// for pages left untouched by the pipeline.
// ENUM(original, jpeg, png)
type ImageFormat int

func (f ImageFormat) Ext() string {
	switch f {
	case ImageFormatPng:
		return ".png"
	default:
		return ".jpg"
	}
}
