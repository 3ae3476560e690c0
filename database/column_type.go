/*
 * Copyright 2025 tomoncle.
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


package database

import (
	"fmt"

	"github.com/uptrace/bun/dialect"
)

// ColumnKind is a portable column type resolved per dialect when tables are
// created.
type ColumnKind int

const (
	ColumnDefault ColumnKind = iota
	ColumnVarchar
	ColumnDate
	ColumnMoney
	ColumnSmallMoney
	ColumnTime
	ColumnXML
	ColumnSysName
	ColumnVarBinary
	ColumnGUID
	ColumnHierarchy
)

const (
	SysNameLength    = 128
	HierarchyLength  = 892
	MaxTimePrecision = 7
)

// ColumnType returns the SQL type of kind for the dialect. size is the
// length, precision or byte count the kind takes; ColumnDefault yields "".
func ColumnType(name dialect.Name, kind ColumnKind, size int) string {
	switch kind {
	case ColumnVarchar:
		return fmt.Sprintf("varchar(%d)", size)
	case ColumnDate:
		return "date"
	case ColumnMoney:
		if name == dialect.PG {
			return "numeric(19,4)"
		}
		return "decimal(19,4)"
	case ColumnSmallMoney:
		if name == dialect.PG {
			return "numeric(10,4)"
		}
		return "decimal(10,4)"
	case ColumnTime:
		if name == dialect.SQLite {
			return "text"
		}
		// postgres and mysql stop at microseconds
		return fmt.Sprintf("time(%d)", min(size, 6))
	case ColumnXML:
		switch name {
		case dialect.PG:
			return "xml"
		case dialect.MySQL:
			return "longtext"
		default:
			return "text"
		}
	case ColumnSysName:
		return fmt.Sprintf("varchar(%d)", SysNameLength)
	case ColumnVarBinary:
		switch name {
		case dialect.PG:
			return "bytea"
		case dialect.MySQL:
			if size <= 0 {
				return "longblob"
			}
			return fmt.Sprintf("varbinary(%d)", size)
		default:
			return "blob"
		}
	case ColumnGUID:
		switch name {
		case dialect.PG:
			return "uuid"
		case dialect.MySQL:
			return "char(36)"
		default:
			return "varchar(36)"
		}
	case ColumnHierarchy:
		return fmt.Sprintf("varchar(%d)", HierarchyLength)
	default:
		return ""
	}
}
