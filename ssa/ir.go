/*
 * Copyright 2023 The Relift Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package ssa

import (
    `fmt`
)

// Name is one SSA-renamed variable: the identity of its original storage
// location plus the SSA version assigned during renaming. It is a plain
// value with O(1) equality, usable as a map key.
type Name uint64

const (
    _B_kind = 62
    _B_slot = 32
)

const (
    _M_kind = 0x03
    _M_slot = 0x3fffffff
    _M_vers = 0xffffffff
)

// StorageKind identifies the class of storage a Name was renamed from.
type StorageKind uint8

const (
    KindReg StorageKind = iota
    KindStack
    KindGlobal
)

const (
    _K_max = KindGlobal
)

func (self StorageKind) String() string {
    switch self {
        case KindReg    : return "r"
        case KindStack  : return "s"
        case KindGlobal : return "g"
        default         : panic("unreachable")
    }
}

// MkName packs a storage identity into a version-0 Name.
func MkName(kind StorageKind, slot int) Name {
    if kind > _K_max {
        panic("mkname: invalid storage kind")
    } else if slot < 0 || slot > _M_slot {
        panic(fmt.Sprintf("mkname: invalid storage slot: %d", slot))
    } else {
        return (Name(kind) << _B_kind) | (Name(slot) << _B_slot)
    }
}

func (self Name) Kind() StorageKind {
    return StorageKind((self >> _B_kind) & _M_kind)
}

func (self Name) Slot() int {
    return int((self >> _B_slot) & _M_slot)
}

func (self Name) Version() int {
    return int(self & _M_vers)
}

// Base strips the SSA version, leaving the storage identity.
func (self Name) Base() Name {
    return self &^ _M_vers
}

// WithVersion derives the i-th SSA renaming of the same storage.
func (self Name) WithVersion(i int) Name {
    return self.Base() | Name(uint64(i) & _M_vers)
}

func (self Name) String() string {
    return fmt.Sprintf("%%%s%d.%d", self.Kind(), self.Slot(), self.Version())
}
