/*
 * series.go, part of gokubo.
 *
 * Copyright 2026 Raul Mera <rauldotmeraatusachdotcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package store

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	kubo "github.com/rmera/gokubo"
)

// Extension is the file extension of the gks series format.
const Extension = ".gks"

// SeriesW writes one (species, property) series file.
type SeriesW struct {
	f         *os.File
	h         io.WriteCloser
	buf       []byte
	particles int
	dims      int
	steps     int
	written   int
	filename  string
	writeable bool
}

// Create opens a gks file for writing the series of one (species, property)
// pair: steps frames of particles*dims float64 values each.
func Create(name, species, property string, particles, dims, steps int) (*SeriesW, error) {
	if particles < 1 || dims < 1 || steps < 1 {
		return nil, Error{message: "particles, dims and steps must all be positive", filename: name, deco: []string{"Create"}, critical: true}
	}
	S := new(SeriesW)
	var err error
	S.f, err = os.Create(name)
	if err != nil {
		return nil, Error{message: UnableToOpen + ": " + err.Error(), filename: name, deco: []string{"Create"}, critical: true}
	}
	S.h, err = zstd.NewWriter(S.f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		S.f.Close()
		return nil, Error{message: "Can't build the compressor: " + err.Error(), filename: name, deco: []string{"Create"}, critical: true}
	}
	header := fmt.Sprintf("species=%s\nproperty=%s\ndims=%d\nsteps=%d\n** %d\n", species, property, dims, steps, particles)
	if _, err := S.h.Write([]byte(header)); err != nil {
		S.f.Close()
		return nil, Error{message: "Can't write the header: " + err.Error(), filename: name, deco: []string{"Create"}, critical: true}
	}
	S.particles = particles
	S.dims = dims
	S.steps = steps
	S.buf = make([]byte, particles*dims*8)
	S.filename = name
	S.writeable = true
	return S, nil
}

// WNext writes the next frame: one sample per particle, particle-major, so
// len(frame) must be particles*dims.
func (S *SeriesW) WNext(frame []float64) error {
	if !S.writeable {
		return Error{message: TrajUnIniWrite, filename: S.filename, deco: []string{"WNext"}, critical: true}
	}
	if len(frame) != S.particles*S.dims {
		return Error{message: fmt.Sprintf("frame must hold %d values, got %d", S.particles*S.dims, len(frame)), filename: S.filename, deco: []string{"WNext"}, critical: true}
	}
	if S.written >= S.steps {
		return Error{message: "more frames written than declared in the header", filename: S.filename, deco: []string{"WNext"}, critical: true}
	}
	for i, v := range frame {
		binary.LittleEndian.PutUint64(S.buf[i*8:], math.Float64bits(v))
	}
	if _, err := S.h.Write(S.buf); err != nil {
		return Error{message: WriteError + ": " + err.Error(), filename: S.filename, deco: []string{"WNext"}, critical: true}
	}
	S.written++
	return nil
}

// Close flushes and closes the file. It errors if fewer frames were written
// than the header declares; the file is unusable in that case.
func (S *SeriesW) Close() error {
	if S == nil || !S.writeable {
		return nil
	}
	S.writeable = false
	if err := S.h.Close(); err != nil {
		S.f.Close()
		return Error{message: WriteError + ": " + err.Error(), filename: S.filename, deco: []string{"Close"}, critical: true}
	}
	if err := S.f.Close(); err != nil {
		return Error{message: WriteError + ": " + err.Error(), filename: S.filename, deco: []string{"Close"}, critical: true}
	}
	if S.written != S.steps {
		return Error{message: fmt.Sprintf("header declares %d frames but %d were written", S.steps, S.written), filename: S.filename, deco: []string{"Close"}, critical: true}
	}
	return nil
}

// seriesFile is the catalog entry for one gks file.
type seriesFile struct {
	path      string
	species   string
	property  string
	particles int
	dims      int
	steps     int

	//sequential read state
	f   *os.File
	dec *zstd.Decoder
	r   *bufio.Reader
	pos int //next timestep to be read
}

// FileSource serves batches from a directory of gks files. Reads within one
// file are cheapest when sequential with increasing start, which is exactly
// how the batch pipeline asks for them; a read before the current position
// reopens the file.
type FileSource struct {
	files map[string]*seriesFile //keyed species/property
	order []string               //species, sorted
}

// OpenDir scans dir for gks files and reads their headers. The data itself
// is only decoded on demand.
func OpenDir(dir string) (*FileSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, Error{message: UnableToOpen + ": " + err.Error(), filename: dir, deco: []string{"OpenDir"}, critical: true}
	}
	F := &FileSource{files: make(map[string]*seriesFile)}
	counts := make(map[string]int)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Extension) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		sf, err := readHeader(path)
		if err != nil {
			return nil, errDecorate(err, "OpenDir")
		}
		if n, ok := counts[sf.species]; ok && n != sf.particles {
			return nil, Error{message: "inconsistent particle count for species " + sf.species, filename: path, deco: []string{"OpenDir"}, critical: true}
		}
		counts[sf.species] = sf.particles
		F.files[key(sf.species, sf.property)] = sf
	}
	if len(F.files) == 0 {
		return nil, Error{message: "no gks files in directory", filename: dir, deco: []string{"OpenDir"}, critical: true}
	}
	for s := range counts {
		F.order = append(F.order, s)
	}
	sort.Strings(F.order)
	return F, nil
}

func readHeader(path string) (*seriesFile, error) {
	sf := &seriesFile{path: path, dims: -1, steps: -1, particles: -1}
	f, dec, r, err := openDecoder(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	defer dec.Close()
	if err := sf.parseHeader(r); err != nil {
		return nil, err
	}
	return sf, nil
}

func openDecoder(path string) (*os.File, *zstd.Decoder, *bufio.Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, Error{message: UnableToOpen + ": " + err.Error(), filename: path, deco: []string{"openDecoder"}, critical: true}
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, nil, nil, Error{message: "Can't build the decompressor: " + err.Error(), filename: path, deco: []string{"openDecoder"}, critical: true}
	}
	return f, dec, bufio.NewReader(dec), nil
}

// parseHeader consumes the text header, leaving the reader at the first
// frame, and fills the catalog fields.
func (sf *seriesFile) parseHeader(r *bufio.Reader) error {
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return Error{message: WrongFormat + ": header ends before the ** terminator", filename: sf.path, deco: []string{"parseHeader"}, critical: true}
		}
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "**") {
			n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "**")))
			if err != nil || n < 1 {
				return Error{message: WrongFormat + ": bad particle count in header terminator", filename: sf.path, deco: []string{"parseHeader"}, critical: true}
			}
			sf.particles = n
			break
		}
		kv := strings.SplitN(line, "=", 2)
		if len(kv) != 2 {
			return Error{message: WrongFormat + ": header line is not key=value: " + line, filename: sf.path, deco: []string{"parseHeader"}, critical: true}
		}
		switch strings.TrimSpace(kv[0]) {
		case "species":
			sf.species = strings.TrimSpace(kv[1])
		case "property":
			sf.property = strings.TrimSpace(kv[1])
		case "dims":
			sf.dims, err = strconv.Atoi(strings.TrimSpace(kv[1]))
		case "steps":
			sf.steps, err = strconv.Atoi(strings.TrimSpace(kv[1]))
		default:
			//unknown keys are allowed, for forward compatibility
		}
		if err != nil {
			return Error{message: WrongFormat + ": " + err.Error(), filename: sf.path, deco: []string{"parseHeader"}, critical: true}
		}
	}
	if sf.species == "" || sf.property == "" || sf.dims < 1 || sf.steps < 1 {
		return Error{message: WrongFormat + ": header misses species, property, dims or steps", filename: sf.path, deco: []string{"parseHeader"}, critical: true}
	}
	return nil
}

// SpeciesList returns the species found in the directory, sorted, without
// the system pseudo-species.
func (F *FileSource) SpeciesList() []string {
	ret := make([]string, 0, len(F.order))
	for _, s := range F.order {
		if s == kubo.SystemSpecies {
			continue
		}
		ret = append(ret, s)
	}
	return ret
}

// NParticles returns the particle count of the species, or 0 if unknown.
func (F *FileSource) NParticles(species string) int {
	for _, sf := range F.files {
		if sf.species == species {
			return sf.particles
		}
	}
	return 0
}

// Steps returns the stored series length for the (species, property) pair.
func (F *FileSource) Steps(species, property string) (int, error) {
	sf, ok := F.files[key(species, property)]
	if !ok {
		return 0, Error{message: "no series stored for " + key(species, property), deco: []string{"Steps"}, critical: true}
	}
	return sf.steps, nil
}

// ReadPropertyBatch decodes length timesteps starting at start, returning
// one Series per particle. The read is atomic: any failure loses the whole
// batch and resets the file, and no partial data is returned.
func (F *FileSource) ReadPropertyBatch(species, property string, start, length int) ([]kubo.Series, error) {
	sf, ok := F.files[key(species, property)]
	if !ok {
		return nil, Error{message: "no series stored for " + key(species, property), deco: []string{"ReadPropertyBatch"}, critical: true}
	}
	if start < 0 || length < 1 || start+length > sf.steps {
		return nil, Error{message: "batch range outside the stored series", filename: sf.path, deco: []string{"ReadPropertyBatch"}, critical: true}
	}
	data, err := sf.readRange(start, length)
	if err != nil {
		sf.rewind()
		return nil, err
	}
	//de-interleave the timestep-major frames into per-particle series
	ret := make([]kubo.Series, sf.particles)
	for p := 0; p < sf.particles; p++ {
		pd := make([]float64, length*sf.dims)
		for t := 0; t < length; t++ {
			off := (t*sf.particles + p) * sf.dims
			copy(pd[t*sf.dims:(t+1)*sf.dims], data[off:off+sf.dims])
		}
		ret[p] = kubo.NewSeries(pd, sf.dims)
	}
	return ret, nil
}

func (sf *seriesFile) rewind() {
	if sf.dec != nil {
		sf.dec.Close()
	}
	if sf.f != nil {
		sf.f.Close()
	}
	sf.f, sf.dec, sf.r = nil, nil, nil
	sf.pos = 0
}

// readRange returns the raw frames of the requested window, decoding
// forward from the current position, or from the start of the file if the
// window lies behind it.
func (sf *seriesFile) readRange(start, length int) ([]float64, error) {
	if sf.r == nil || start < sf.pos {
		sf.rewind()
		f, dec, r, err := openDecoder(sf.path)
		if err != nil {
			return nil, err
		}
		if err := sf.parseHeader(r); err != nil {
			f.Close()
			dec.Close()
			return nil, err
		}
		sf.f, sf.dec, sf.r = f, dec, r
	}
	frame := sf.particles * sf.dims * 8
	if skip := start - sf.pos; skip > 0 {
		if _, err := io.CopyN(io.Discard, sf.r, int64(skip)*int64(frame)); err != nil {
			return nil, Error{message: ReadError + ": " + err.Error(), filename: sf.path, deco: []string{"readRange"}, critical: true}
		}
		sf.pos = start
	}
	buf := make([]byte, length*frame)
	if _, err := io.ReadFull(sf.r, buf); err != nil {
		return nil, Error{message: ReadError + ": " + err.Error(), filename: sf.path, deco: []string{"readRange"}, critical: true}
	}
	sf.pos += length
	data := make([]float64, length*sf.particles*sf.dims)
	for i := range data {
		data[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[i*8:]))
	}
	return data, nil
}

// Close releases the decoders of every file. The source can still be used
// afterwards; the files reopen on demand.
func (F *FileSource) Close() {
	for _, sf := range F.files {
		sf.rewind()
	}
}
