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
    `sort`
    `strings`

    `github.com/davecgh/go-spew/spew`
)

var _DumpConf = spew.ConfigState {
    Indent                  : "    ",
    SortKeys                : true,
    DisableMethods          : true,
    DisableCapacities       : true,
    DisablePointerAddresses : true,
}

// DumpProc renders the full procedure state for debugging: the statement
// listing, then every table record with its use counts.
func DumpProc(p *Proc) string {
    names := make([]Name, 0, p.Tab.Len())
    for n := range p.Tab.defs { names = append(names, n) }

    /* stable order for comparison between dumps */
    sort.Slice(names, func(i int, j int) bool {
        return names[i] < names[j]
    })

    /* dump each record */
    buf := make([]string, 0, len(names) + 1)
    buf = append(buf, p.Seq.String())
    for _, n := range names {
        d := p.Tab.defs[n]
        buf = append(buf, fmt.Sprintf("%s: def=%d uses=%s", n, d.def, strings.TrimSpace(_DumpConf.Sdump(d.uses))))
    }
    return strings.Join(buf, "\n")
}
