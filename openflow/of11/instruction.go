/*
 * Cherry - An OpenFlow Controller
 *
 * Copyright (C) 2015 Samjung Data Service, Inc. All rights reserved.
 * Kitae Kim <superkkt@sds.co.kr>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation; either version 2 of the License, or
 * any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License along
 * with this program; if not, write to the Free Software Foundation, Inc.,
 * 51 Franklin Street, Fifth Floor, Boston, MA 02110-1301 USA.
 */

package of11

import (
	"encoding"

	"github.com/floodlight/oftest-sub001/openflow"
	"github.com/pkg/errors"
)

// Instruction is an ofp_instruction_* structure. Its encoding starts with
// the instruction type and the total instruction length.
type Instruction interface {
	Type() uint16
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
}

var instructions = map[uint16]func() Instruction{
	OFPIT_GOTO_TABLE:     func() Instruction { return new(GotoTable) },
	OFPIT_WRITE_METADATA: func() Instruction { return new(WriteMetadata) },
	OFPIT_WRITE_ACTIONS:  func() Instruction { return new(WriteActions) },
	OFPIT_APPLY_ACTIONS:  func() Instruction { return new(ApplyActions) },
	OFPIT_CLEAR_ACTIONS:  func() Instruction { return new(ClearActions) },
	OFPIT_EXPERIMENTER:   func() Instruction { return new(InstructionExperimenter) },
}

// InstructionList is an ordered sequence of instructions encoded back to back.
type InstructionList []Instruction

func (r InstructionList) MarshalBinary() ([]byte, error) {
	v := make([]byte, 0)
	for _, inst := range r {
		i, err := inst.MarshalBinary()
		if err != nil {
			return nil, err
		}
		v = append(v, i...)
	}

	return v, nil
}

// UnmarshalInstructions decodes instructions that must consume data exactly.
func UnmarshalInstructions(data []byte) (InstructionList, error) {
	items, err := openflow.SplitList(data, 2, 8)
	if err != nil {
		return nil, errors.Wrap(err, "instruction list")
	}

	result := make(InstructionList, 0, len(items))
	for _, v := range items {
		t, err := openflow.ItemType(v)
		if err != nil {
			return nil, err
		}
		newInstruction, ok := instructions[t]
		if !ok {
			return nil, errors.Wrapf(openflow.ErrUnknownMessageType, "instruction type %v", t)
		}
		inst := newInstruction()
		if err := inst.UnmarshalBinary(v); err != nil {
			return nil, err
		}
		result = append(result, inst)
	}

	return result, nil
}

// GotoTable sets the next table in the lookup pipeline.
type GotoTable struct {
	TableID uint8
}

func (r *GotoTable) Type() uint16 {
	return OFPIT_GOTO_TABLE
}

func (r *GotoTable) MarshalBinary() ([]byte, error) {
	return openflow.MarshalItem(r.Type(), []byte{r.TableID, 0, 0, 0})
}

func (r *GotoTable) UnmarshalBinary(data []byte) error {
	d, err := openflow.UnmarshalItem(data, r.Type())
	if err != nil {
		return err
	}
	r.TableID = d.Uint8()
	d.Skip(3)

	return errors.Wrap(d.Finish(), "ofp_instruction_goto_table")
}

// WriteMetadata sets the metadata bits selected by MetadataMask.
type WriteMetadata struct {
	Metadata     uint64
	MetadataMask uint64
}

func (r *WriteMetadata) Type() uint16 {
	return OFPIT_WRITE_METADATA
}

func (r *WriteMetadata) MarshalBinary() ([]byte, error) {
	e := openflow.NewEncoder(20)
	e.Pad(4)
	e.Uint64(r.Metadata)
	e.Uint64(r.MetadataMask)
	body, err := e.Bytes()
	if err != nil {
		return nil, err
	}

	return openflow.MarshalItem(r.Type(), body)
}

func (r *WriteMetadata) UnmarshalBinary(data []byte) error {
	d, err := openflow.UnmarshalItem(data, r.Type())
	if err != nil {
		return err
	}
	d.Skip(4)
	r.Metadata = d.Uint64()
	r.MetadataMask = d.Uint64()

	return errors.Wrap(d.Finish(), "ofp_instruction_write_metadata")
}

// instructionActions is ofp_instruction_actions. Its action list takes the
// rest of the instruction.
type instructionActions struct {
	Actions ActionList
}

func (r *instructionActions) marshal(t uint16) ([]byte, error) {
	actions, err := r.Actions.MarshalBinary()
	if err != nil {
		return nil, err
	}

	e := openflow.NewEncoder(4 + len(actions))
	e.Pad(4)
	e.Raw(actions)
	body, err := e.Bytes()
	if err != nil {
		return nil, err
	}

	return openflow.MarshalItem(t, body)
}

func (r *instructionActions) unmarshal(data []byte, t uint16) error {
	d, err := openflow.UnmarshalItem(data, t)
	if err != nil {
		return err
	}
	d.Skip(4)
	if err := d.Err(); err != nil {
		return errors.Wrap(err, "ofp_instruction_actions")
	}
	r.Actions, err = UnmarshalActions(d.Rest())

	return err
}

// WriteActions merges the actions into the action set.
type WriteActions struct {
	instructionActions
}

func NewWriteActions(actions ...Action) *WriteActions {
	return &WriteActions{instructionActions{Actions: actions}}
}

func (r *WriteActions) Type() uint16 {
	return OFPIT_WRITE_ACTIONS
}

func (r *WriteActions) MarshalBinary() ([]byte, error) {
	return r.marshal(r.Type())
}

func (r *WriteActions) UnmarshalBinary(data []byte) error {
	return r.unmarshal(data, r.Type())
}

// ApplyActions applies the actions immediately.
type ApplyActions struct {
	instructionActions
}

func NewApplyActions(actions ...Action) *ApplyActions {
	return &ApplyActions{instructionActions{Actions: actions}}
}

func (r *ApplyActions) Type() uint16 {
	return OFPIT_APPLY_ACTIONS
}

func (r *ApplyActions) MarshalBinary() ([]byte, error) {
	return r.marshal(r.Type())
}

func (r *ApplyActions) UnmarshalBinary(data []byte) error {
	return r.unmarshal(data, r.Type())
}

// ClearActions clears the action set. It never carries actions.
type ClearActions struct {
	instructionActions
}

func (r *ClearActions) Type() uint16 {
	return OFPIT_CLEAR_ACTIONS
}

func (r *ClearActions) MarshalBinary() ([]byte, error) {
	return r.marshal(r.Type())
}

func (r *ClearActions) UnmarshalBinary(data []byte) error {
	return r.unmarshal(data, r.Type())
}

type InstructionExperimenter struct {
	Experimenter uint32
	Data         []byte
}

func (r *InstructionExperimenter) Type() uint16 {
	return OFPIT_EXPERIMENTER
}

func (r *InstructionExperimenter) MarshalBinary() ([]byte, error) {
	e := openflow.NewEncoder(4 + len(r.Data))
	e.Uint32(r.Experimenter)
	e.Raw(r.Data)
	body, err := e.Bytes()
	if err != nil {
		return nil, err
	}

	return openflow.MarshalItem(r.Type(), body)
}

func (r *InstructionExperimenter) UnmarshalBinary(data []byte) error {
	d, err := openflow.UnmarshalItem(data, r.Type())
	if err != nil {
		return err
	}
	r.Experimenter = d.Uint32()
	r.Data = d.Rest()

	return errors.Wrap(d.Finish(), "ofp_instruction_experimenter")
}
