/*
 * stf.go, part of gofm.
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
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

package stf

import (
	"bufio"
	"compress/flate"
	"compress/gzip"
	"compress/lzw"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	fm "github.com/rmera/gofm"
	v3 "github.com/rmera/gofm/v3"
)

const (
	lzwLitwidth int = 8

	//DefaultPrec is the number of decimal places kept when no precision is given.
	DefaultPrec = 2
)

// Writer writes frames to an stf file.
type Writer struct {
	f         *os.File
	h         io.WriteCloser
	natoms    int
	filename  string
	writeable bool
	prec      int
}

// Close flushes and closes the file. The writer can't be used after this call.
func (S *Writer) Close() error {
	if S == nil || !S.writeable {
		return nil
	}
	S.writeable = false
	if err := S.h.Close(); err != nil {
		S.f.Close()
		return Error{err.Error(), S.filename, []string{"Close"}, true}
	}
	return S.f.Close()
}

// Len returns the number of particles per frame.
func (S *Writer) Len() int {
	return S.natoms
}

// WNext writes coord as the next frame. If a box is given, it is written with the frame,
// either as 3 sides of an orthorhombic box or as 9 components of the box vectors.
func (S *Writer) WNext(coord *v3.Matrix, box ...[]float64) error {
	if !S.writeable {
		return Error{TrajUnIniWrite, S.filename, []string{"WNext"}, true}
	}
	if coord == nil {
		return Error{NilCoordinates, S.filename, []string{"WNext"}, true}
	}
	v := coord.NVecs()
	if v != S.natoms {
		return Error{fmt.Sprintf("%d coordinates given, but %d expected", v, S.natoms), S.filename, []string{"WNext"}, true}
	}
	var temp [3]int
	for i := 0; i < v; i++ {
		if _, err := io.WriteString(S.h, coordsEncode(coord.Vec(i), temp, S.prec)); err != nil {
			return Error{err.Error(), S.filename, []string{"WNext"}, true}
		}
	}
	var b []float64
	if len(box) > 0 {
		switch len(box[0]) {
		case 3:
			b = []float64{box[0][0], 0, 0, 0, box[0][1], 0, 0, 0, box[0][2]}
		case 9:
			b = box[0]
		}
	}
	end := "*\n"
	if b != nil {
		end = fmt.Sprintf("* %g %g %g %g %g %g %g %g %g\n", b[0], b[1], b[2], b[3], b[4], b[5], b[6], b[7], b[8])
	}
	if _, err := io.WriteString(S.h, end); err != nil {
		return Error{err.Error(), S.filename, []string{"WNext"}, true}
	}
	return nil
}

// NewWriter creates an stf file with the given name for frames of natoms particles.
// The compression is chosen by the last letter of the name: zstd for .stf (the default),
// gzip for .stz, flate for .stR and lzw for .stl.
// Every key=value pair in header is written to the file header. The "prec" key sets the
// number of decimal places kept, and defaults to DefaultPrec.
func NewWriter(name string, natoms int, header map[string]string, compressionLevel ...int) (*Writer, error) {
	level := 9
	if len(compressionLevel) > 0 {
		level = compressionLevel[0]
	}
	S := new(Writer)
	S.filename = name
	S.prec = DefaultPrec
	if p, ok := header["prec"]; ok {
		prec, err := strconv.Atoi(p)
		if err != nil || prec <= 0 {
			log.Printf("stf: invalid precision %q for trajectory %s, will use %d", p, name, DefaultPrec)
		} else {
			S.prec = prec
		}
	}
	var err error
	S.f, err = os.Create(name)
	if err != nil {
		return nil, Error{UnableToOpen + ": " + err.Error(), name, []string{"NewWriter"}, true}
	}
	var AnyNewWriter func(io.Writer) (io.WriteCloser, error)
	switch compressionOf(name) {
	case 'l':
		AnyNewWriter = func(a io.Writer) (io.WriteCloser, error) { return lzw.NewWriter(a, lzw.MSB, lzwLitwidth), nil }
	case 'z':
		AnyNewWriter = func(a io.Writer) (io.WriteCloser, error) { return gzip.NewWriterLevel(a, level) }
	case 'r':
		AnyNewWriter = func(a io.Writer) (io.WriteCloser, error) { return flate.NewWriter(a, level) }
	default:
		AnyNewWriter = func(a io.Writer) (io.WriteCloser, error) {
			return zstd.NewWriter(a, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
		}
	}
	S.h, err = AnyNewWriter(S.f)
	if err != nil {
		S.f.Close()
		return nil, Error{"can't start compression: " + err.Error(), name, []string{"NewWriter"}, true}
	}
	S.natoms = natoms
	S.writeable = true

	//the keys are sorted so equal headers give equal files.
	keys := make([]string, 0, len(header))
	for k := range header {
		if k != "prec" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	headerstr := fmt.Sprintf("prec=%d\n", S.prec)
	for _, k := range keys {
		headerstr += fmt.Sprintf("%s=%s\n", k, header[k])
	}
	headerstr += fmt.Sprintf("** %d\n", S.natoms)
	if _, err := io.WriteString(S.h, headerstr); err != nil {
		S.Close()
		return nil, Error{err.Error(), name, []string{"NewWriter"}, true}
	}
	return S, nil
}

// Reader reads an stf file. It implements fm.FrameSource and fm.Seeker.
// Rewinding reopens the file.
type Reader struct {
	f        *os.File
	dec      io.ReadCloser
	h        *bufio.Reader
	natoms   int
	nframes  int
	current  int
	filename string
	prec     int
	header   map[string]string
	readable bool
	boxbuf   []float64
}

// zstd.Decoder doesn't implement io.ReadCloser.
type zstdCloser struct {
	*zstd.Decoder
}

func (z zstdCloser) Close() error {
	z.Decoder.Close()
	return nil
}

func compressionOf(name string) byte {
	if name == "" {
		return 'f'
	}
	return strings.ToLower(name)[len(name)-1]
}

func coordsEncode(f [3]float64, temp [3]int, prec int) string {
	p := math.Pow(10.0, float64(prec))
	for i, v := range f {
		temp[i] = int(math.RoundToEven(v * p))
	}
	return fmt.Sprintf("%d %d %d\n", temp[0], temp[1], temp[2])
}

// New opens an stf trajectory for reading, and returns the handle and the metadata in
// its header.
func New(name string) (*Reader, map[string]string, error) {
	S := new(Reader)
	S.filename = name
	S.nframes = -1
	if err := S.open(); err != nil {
		return nil, nil, errDecorate(err, "New")
	}
	return S, S.header, nil
}

// open opens the file and reads the header, leaving the reader before the first frame.
func (S *Reader) open() error {
	var err error
	S.f, err = os.Open(S.filename)
	if err != nil {
		return Error{UnableToOpen + ": " + err.Error(), S.filename, []string{"open"}, true}
	}
	var AnyNewReader func(io.Reader) (io.ReadCloser, error)
	switch compressionOf(S.filename) {
	case 'l':
		AnyNewReader = func(a io.Reader) (io.ReadCloser, error) { return lzw.NewReader(a, lzw.MSB, lzwLitwidth), nil }
	case 'z':
		AnyNewReader = func(a io.Reader) (io.ReadCloser, error) { return gzip.NewReader(a) }
	case 'r':
		AnyNewReader = func(a io.Reader) (io.ReadCloser, error) { return flate.NewReader(a), nil }
	default:
		AnyNewReader = func(a io.Reader) (io.ReadCloser, error) {
			r, err := zstd.NewReader(a)
			if err != nil {
				return nil, err
			}
			return zstdCloser{r}, nil
		}
	}
	S.dec, err = AnyNewReader(bufio.NewReader(S.f))
	if err != nil {
		S.f.Close()
		return Error{"can't start decompression: " + err.Error(), S.filename, []string{"open"}, true}
	}
	S.h = bufio.NewReader(S.dec)
	S.header = make(map[string]string)
	S.natoms = -1
	for {
		str, err := S.h.ReadString('\n')
		if err != nil {
			S.close()
			return Error{"can't read header: " + err.Error(), S.filename, []string{"open"}, true}
		}
		str = strings.TrimSuffix(str, "\n")
		if strings.HasPrefix(str, "**") {
			nat := strings.Fields(str)
			if len(nat) < 2 {
				S.close()
				return Error{fmt.Sprintf("can't read the number of particles from '%s'", str), S.filename, []string{"open"}, true}
			}
			S.natoms, err = strconv.Atoi(nat[1])
			if err != nil || S.natoms <= 0 {
				S.close()
				return Error{fmt.Sprintf("can't read the number of particles from '%s'", nat[1]), S.filename, []string{"open"}, true}
			}
			break
		}
		kv := strings.SplitN(str, "=", 2)
		if len(kv) != 2 {
			S.close()
			return Error{"malformed header line: " + str, S.filename, []string{"open"}, true}
		}
		S.header[kv[0]] = kv[1]
	}
	S.prec = DefaultPrec
	if p, ok := S.header["prec"]; ok {
		prec, err := strconv.Atoi(p)
		if err != nil || prec <= 0 {
			log.Printf("stf: invalid precision %q for trajectory %s, will assume %d", p, S.filename, DefaultPrec)
		} else {
			S.prec = prec
		}
	}
	S.current = 0
	S.readable = true
	return nil
}

// Readable returns true if the handle is readable (if it is possible to call Next on it)
func (S *Reader) Readable() bool {
	return S.readable
}

// Len returns the number of particles in each frame of the trajectory.
func (S *Reader) Len() int {
	return S.natoms
}

// Header returns the metadata in the header of the file.
func (S *Reader) Header() map[string]string {
	return S.header
}

func coordsDecode(str string, temp *[3]float64, prec int) error {
	p := math.Pow(10.0, float64(prec))
	s := strings.Fields(str)
	if len(s) != 3 {
		return fmt.Errorf("ill formated coordinates line, %d fields: %s", len(s), str)
	}
	for i, v := range s {
		f, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("can't parse coordinate %d (%s): %w", i, v, err)
		}
		temp[i] = float64(f) / p
	}
	return nil
}

// Next reads the next frame into f. The coordinates of f are replaced, and so is its box,
// if the file has one for the frame. A nil f skips the frame.
func (S *Reader) Next(f *fm.Frame) error {
	if f == nil {
		return errDecorate(S.read(nil, nil), "Next")
	}
	if f.Coords == nil || f.Coords.NVecs() != S.natoms {
		f.Coords = v3.Zeros(S.natoms)
	}
	if cap(S.boxbuf) < 9 {
		S.boxbuf = make([]float64, 9)
	}
	S.boxbuf = S.boxbuf[:9]
	index := S.current
	err := S.read(f.Coords, S.boxbuf)
	if err != nil {
		return errDecorate(err, "Next")
	}
	f.Index = index
	if S.boxbuf[0] > 0 {
		if len(f.Box) != 3 {
			f.Box = make([]float64, 3)
		}
		f.Box[0], f.Box[1], f.Box[2] = S.boxbuf[0], S.boxbuf[4], S.boxbuf[8]
	}
	return nil
}

// NextForces reads the next frame into dst, for files that store forces instead of positions.
func (S *Reader) NextForces(dst *v3.Matrix) error {
	return errDecorate(S.read(dst, nil), "NextForces")
}

// read reads one frame into c, or skips it if c is nil. If box has 9 elements, it gets
// the box of the frame, or zeros if the frame has none.
func (S *Reader) read(c *v3.Matrix, box []float64) error {
	if !S.readable {
		return Error{TrajUnIniRead, S.filename, []string{"read"}, true}
	}
	if c != nil && c.NVecs() != S.natoms {
		return Error{fmt.Sprintf("room for %d particles, the file has %d", c.NVecs(), S.natoms), S.filename, []string{"read"}, true}
	}
	var temp [3]float64
	for i := 0; i < S.natoms; i++ {
		b, err := S.h.ReadString('\n')
		if err == io.EOF && i == 0 && b == "" {
			//nothing bad happened here, the trajectory just ended.
			S.close()
			return newlastFrameError(S.filename, "read")
		}
		if err != nil {
			return Error{ReadError + ": " + err.Error(), S.filename, []string{"read"}, true}
		}
		if strings.HasPrefix(b, "*") {
			return Error{fmt.Sprintf("%s: frame %d ends after %d particles", WrongFormat, S.current, i), S.filename, []string{"read"}, true}
		}
		if err := coordsDecode(strings.TrimSuffix(b, "\n"), &temp, S.prec); err != nil {
			return Error{err.Error(), S.filename, []string{"read"}, true}
		}
		if c != nil {
			c.SetVec(i, temp)
		}
	}
	s, err := S.h.ReadString('\n')
	if err != nil && s == "" {
		return Error{"can't read the frame termination mark: " + err.Error(), S.filename, []string{"read"}, true}
	}
	if s[0] != '*' {
		return Error{fmt.Sprintf("%s: frame %d has more than %d particles", WrongFormat, S.current, S.natoms), S.filename, []string{"read"}, true}
	}
	S.current++
	if len(box) < 9 {
		return nil
	}
	for i := range box {
		box[i] = 0
	}
	fields := strings.Fields(s)
	if len(fields) == 1 {
		return nil
	}
	if len(fields) != 10 {
		log.Printf("stf: trajectory %s does not contain correct box information: %v", S.filename, fields)
		return nil
	}
	for j, v := range fields[1:] {
		box[j], err = strconv.ParseFloat(v, 64)
		if err != nil {
			//a bad box is not worth stopping for, so the box is zeroed
			log.Printf("stf: failed to read the box in frame %d of %s", S.current-1, S.filename)
			for i := range box {
				box[i] = 0
			}
			return nil
		}
	}
	return nil
}

// Rewind reopens the file, so the next call to Next returns the first frame.
func (S *Reader) Rewind() error {
	S.close()
	return errDecorate(S.open(), "Rewind")
}

// Seek leaves the reader so the next call to Next returns frame i.
func (S *Reader) Seek(i int) error {
	if i < 0 {
		return Error{fmt.Sprintf("can't seek frame %d", i), S.filename, []string{"Seek"}, true}
	}
	if i < S.current || !S.readable {
		if err := S.Rewind(); err != nil {
			return errDecorate(err, "Seek")
		}
	}
	for S.current < i {
		if err := S.read(nil, nil); err != nil {
			return errDecorate(err, "Seek")
		}
	}
	return nil
}

// NFrames returns the number of frames in the file. The first call reads the whole file
// with a separate handle.
func (S *Reader) NFrames() int {
	if S.nframes >= 0 {
		return S.nframes
	}
	R, _, err := New(S.filename)
	if err != nil {
		log.Printf("stf: can't count the frames of %s: %s", S.filename, err.Error())
		return 0
	}
	defer R.Close()
	n := 0
	for {
		err := R.read(nil, nil)
		if fm.IsLastFrame(err) {
			break
		}
		if err != nil {
			log.Printf("stf: frame %d of %s is unreadable, counting only the frames before it: %s", n, S.filename, err.Error())
			break
		}
		n++
	}
	S.nframes = n
	return n
}

// Close closes the object, and marks it as unreadable
func (S *Reader) Close() {
	S.close()
}

func (S *Reader) close() {
	if !S.readable && S.f == nil {
		return
	}
	if S.dec != nil {
		S.dec.Close()
		S.dec = nil
	}
	if S.f != nil {
		S.f.Close()
		S.f = nil
	}
	S.readable = false
}

//Errors

// errDecorate decorates err with the caller's name if it implements fm.Error.
func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	if err2, ok := err.(fm.Error); ok {
		err2.Decorate(caller)
		return err2
	}
	return Error{err.Error(), "", []string{caller}, true}
}

// Error is the general structure for stf trajectory errors. It fullfills fm.TrajError
type Error struct {
	message  string
	filename string //the input file that has problems, or empty string if none.
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("stf file %s error: %s", err.filename, err.message)
}

// Decorate Adds new information to the error
func (err Error) Decorate(deco string) []string {
	//The receiver is a copy, but the appended trail is returned.
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// FileName returns the file to which the failing trajectory was associated
func (err Error) FileName() string { return err.filename }

// Format returns the format of the file (always "stf") associated to the error
func (err Error) Format() string { return "stf" }

// Critical returns true if the error is critical, false otherwise
func (err Error) Critical() bool { return err.critical }

const (
	TrajUnIniRead  = "Traj object uninitialized to read"
	TrajUnIniWrite = "Traj object uninitialized to write"
	ReadError      = "Error reading frame"
	UnableToOpen   = "Unable to open file"
	NilCoordinates = "Given nil coordinates"
	WrongFormat    = "Wrong format in the STF file or frame"
)

// lastFrameError implements fm.LastFrameError
type lastFrameError struct {
	deco     []string
	fileName string
}

// NormalLastFrameTermination does nothing
func (E *lastFrameError) NormalLastFrameTermination() {}

func (E *lastFrameError) FileName() string { return E.fileName }

func (E *lastFrameError) Error() string { return "EOF" }

func (E *lastFrameError) Critical() bool { return false }

func (E *lastFrameError) Format() string { return "stf" }

func (E *lastFrameError) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func newlastFrameError(filename string, caller string) *lastFrameError {
	e := new(lastFrameError)
	e.fileName = filename
	e.deco = []string{caller}
	return e
}
