package scanner

import (
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bogem/id3v2/v2"
	flac "github.com/go-flac/go-flac"
	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"

	"github.com/dmateos82/tunecase/internal/constants"
)

// Meta is the tag metadata read from an audio file. All fields are best
// effort; absent tags stay zero and the scanner fills placeholders.
type Meta struct {
	Title      string
	Artist     string
	Album      string
	Genre      string
	Lyrics     string
	Year       int
	DurationMS int64
	Artwork    string // data URI
}

// ReadMeta reads whatever tags the file format carries.
func ReadMeta(path string) (Meta, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case constants.ExtMP3:
		return readMP3(path)
	case constants.ExtFLAC:
		return readFLAC(path)
	default:
		// WAV and OGG files rarely carry usable tags; the filename is enough.
		return Meta{}, nil
	}
}

func readMP3(path string) (Meta, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return Meta{}, fmt.Errorf("failed to read id3 tags: %w", err)
	}
	defer tag.Close()

	meta := Meta{
		Title:  tag.Title(),
		Artist: tag.Artist(),
		Album:  tag.Album(),
		Genre:  tag.Genre(),
	}

	if year := tag.Year(); len(year) >= 4 {
		if y, err := strconv.Atoi(year[:4]); err == nil {
			meta.Year = y
		}
	}

	// TLEN is the track length in milliseconds, when the encoder wrote it.
	if tlen := tag.GetTextFrame("TLEN").Text; tlen != "" {
		if ms, err := strconv.ParseInt(tlen, 10, 64); err == nil && ms > 0 {
			meta.DurationMS = ms
		}
	}

	for _, frame := range tag.GetFrames(tag.CommonID("Unsynchronised lyrics/text transcription")) {
		if uslf, ok := frame.(id3v2.UnsynchronisedLyricsFrame); ok {
			meta.Lyrics = uslf.Lyrics
			break
		}
	}

	for _, frame := range tag.GetFrames(tag.CommonID("Attached picture")) {
		if pic, ok := frame.(id3v2.PictureFrame); ok && len(pic.Picture) > 0 {
			meta.Artwork = dataURI(pic.MimeType, pic.Picture)
			break
		}
	}

	return meta, nil
}

func readFLAC(path string) (Meta, error) {
	f, err := flac.ParseFile(path)
	if err != nil {
		return Meta{}, fmt.Errorf("failed to parse flac file: %w", err)
	}

	var meta Meta

	if info, err := f.GetStreamInfo(); err == nil && info.SampleRate > 0 {
		meta.DurationMS = info.SampleCount * 1000 / int64(info.SampleRate)
	}

	for _, block := range f.Meta {
		switch block.Type {
		case flac.VorbisComment:
			vc, err := flacvorbis.ParseFromMetaDataBlock(*block)
			if err != nil {
				continue
			}
			meta.Title = firstComment(vc, flacvorbis.FIELD_TITLE)
			meta.Artist = firstComment(vc, flacvorbis.FIELD_ARTIST)
			meta.Album = firstComment(vc, flacvorbis.FIELD_ALBUM)
			meta.Genre = firstComment(vc, "GENRE")
			meta.Lyrics = firstComment(vc, "LYRICS")
			if date := firstComment(vc, "DATE"); len(date) >= 4 {
				if y, err := strconv.Atoi(date[:4]); err == nil {
					meta.Year = y
				}
			}
		case flac.Picture:
			if meta.Artwork != "" {
				continue
			}
			if pic, err := flacpicture.ParseFromMetaDataBlock(*block); err == nil && len(pic.ImageData) > 0 {
				meta.Artwork = dataURI(pic.MIME, pic.ImageData)
			}
		}
	}

	return meta, nil
}

func firstComment(vc *flacvorbis.MetaDataBlockVorbisComment, field string) string {
	values, err := vc.Get(field)
	if err != nil || len(values) == 0 {
		return ""
	}
	return values[0]
}

func dataURI(mime string, data []byte) string {
	if mime == "" {
		mime = constants.MimeTypeJPEG
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
