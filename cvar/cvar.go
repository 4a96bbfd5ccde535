// SPDX-License-Identifier: GPL-2.0-or-later

package cvar

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
)

var (
	mutex      sync.RWMutex
	cvarArray  []*Cvar
	cvarByName = make(map[string]*Cvar)
)

type flag uint64

const (
	// cvar flags bitfield
	NONE    flag = 0
	ARCHIVE flag = 1
	NOTIFY  flag = 1 << 1
	ROM     flag = 1 << 6
)

type CallbackFunc func(cv *Cvar)

type Cvar struct {
	mutex    sync.RWMutex
	archive  bool
	notify   bool
	rom      bool
	user     bool
	callback CallbackFunc
	name     string
	// stringValue is the truth, value the derived one
	stringValue  string
	value        float32
	defaultValue string
	id           int
}

func All() []*Cvar {
	mutex.RLock()
	defer mutex.RUnlock()
	return append([]*Cvar(nil), cvarArray...)
}

func (cv *Cvar) Archive() bool {
	return cv.archive
}

func (cv *Cvar) UserDefined() bool {
	return cv.user
}

func (cv *Cvar) SetCallback(cb CallbackFunc) {
	cv.mutex.Lock()
	cv.callback = cb
	cv.mutex.Unlock()
}

func (cv *Cvar) SetByString(s string) {
	if cv.rom {
		return
	}
	cv.set(s)
}

func (cv *Cvar) set(s string) {
	cv.mutex.Lock()
	cv.stringValue = s
	pf, _ := strconv.ParseFloat(s, 32)
	cv.value = float32(pf)
	cb := cv.callback
	cv.mutex.Unlock()
	if cv.notify {
		slog.Info("cvar changed", "name", cv.name, "value", s)
	}
	if cb != nil {
		cb(cv)
	}
}

func (cv *Cvar) Reset() {
	cv.SetByString(cv.defaultValue)
}

func (cv *Cvar) String() string {
	cv.mutex.RLock()
	defer cv.mutex.RUnlock()
	return cv.stringValue
}

func (cv *Cvar) DefaultValue() string {
	return cv.defaultValue
}

func (cv *Cvar) ID() int {
	return cv.id
}

func (cv *Cvar) Name() string {
	return cv.name
}

func (cv *Cvar) Value() float32 {
	cv.mutex.RLock()
	defer cv.mutex.RUnlock()
	return cv.value
}

func (cv *Cvar) SetValue(value float32) {
	if float32(int(value)) == value {
		v := strconv.FormatInt(int64(value), 10)
		cv.SetByString(v)
	} else {
		v := strconv.FormatFloat(float64(value), 'f', -1, 32)
		cv.SetByString(v)
	}
}

func (cv *Cvar) Toggle() {
	if cv.String() == "1" {
		cv.SetByString("0")
	} else {
		cv.SetByString("1")
	}
}

func (cv *Cvar) Bool() bool {
	return cv.String() != "0"
}

func Get(name string) (*Cvar, bool) {
	mutex.RLock()
	defer mutex.RUnlock()
	cv, ok := cvarByName[name]
	return cv, ok
}

func GetByID(id int) (*Cvar, error) {
	mutex.RLock()
	defer mutex.RUnlock()
	if id < 0 || id >= len(cvarArray) {
		return nil, fmt.Errorf("id out of bounds")
	}
	return cvarArray[id], nil
}

// create expects mutex to be held.
func create(name, value string) *Cvar {
	cv := &Cvar{name: name, defaultValue: value}
	cv.set(value)
	cv.id = len(cvarArray)
	cvarArray = append(cvarArray, cv)
	cvarByName[name] = cv
	return cv
}

func Register(name, value string, flags flag) (*Cvar, error) {
	mutex.Lock()
	defer mutex.Unlock()
	if _, ok := cvarByName[name]; ok {
		return nil, fmt.Errorf("Can't register variable %s, already defined", name)
	}

	cv := create(name, value)
	cv.archive = flags&ARCHIVE != 0
	cv.notify = flags&NOTIFY != 0
	cv.rom = flags&ROM != 0
	return cv, nil
}

func MustRegister(n, v string, flag flag) *Cvar {
	cv, err := Register(n, v, flag)
	if err != nil {
		panic(err)
	}
	return cv
}

// Execute handles "name" and "name value" argument lists. The first result
// reports whether args[0] named a cvar.
func Execute(args []string, w io.Writer) (bool, error) {
	if len(args) == 0 {
		return false, nil
	}
	cv, ok := Get(args[0])
	if !ok {
		return false, nil
	}
	if len(args) == 1 {
		_, err := fmt.Fprintf(w, "\"%s\" is \"%s\"\n", cv.Name(), cv.String())
		return true, err
	}
	if cv.rom {
		return true, fmt.Errorf("%s is read only", cv.Name())
	}
	cv.SetByString(args[1])
	return true, nil
}

// Set assigns value to the cvar name, creating a user defined one if needed.
func Set(name, value string) {
	mutex.Lock()
	cv, ok := cvarByName[name]
	if !ok {
		cv = create(name, value)
		cv.user = true
		mutex.Unlock()
		return
	}
	mutex.Unlock()
	cv.SetByString(value)
}

func ResetAll() {
	for _, cv := range All() {
		cv.Reset()
	}
}

// List writes every cvar, archived ones marked with '*'.
func List(w io.Writer) error {
	cvars := All()
	for _, v := range cvars {
		mark := " "
		if v.Archive() {
			mark = "*"
		}
		if _, err := fmt.Fprintf(w, "%s %s \"%s\"\n", mark, v.Name(), v.String()); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%v cvars\n", len(cvars))
	return err
}
