package classfile

func decodeStackMapTableAttribute(r *reader) (Attribute, error) {
	count, err := r.u2()
	if err != nil {
		return nil, err
	}
	entries := make([]StackMapFrame, count)
	for i := range entries {
		frame, err := decodeStackMapFrame(r)
		if err != nil {
			return nil, err
		}
		entries[i] = frame
	}
	return StackMapTableAttribute{Entries: entries}, nil
}

func decodeStackMapFrame(r *reader) (StackMapFrame, error) {
	t, err := r.u1()
	if err != nil {
		return StackMapFrame{}, err
	}

	switch {
	case t <= 63:
		return StackMapFrame{Kind: FrameSame, FrameType: t, OffsetDelta: uint16(t)}, nil

	case t <= 127:
		stack, err := decodeVerificationList(r, 1)
		if err != nil {
			return StackMapFrame{}, err
		}
		return StackMapFrame{Kind: FrameSameLocals, FrameType: t, OffsetDelta: uint16(t) - 64, Stack: stack}, nil

	case t == 247:
		delta, err := r.u2()
		if err != nil {
			return StackMapFrame{}, err
		}
		stack, err := decodeVerificationList(r, 1)
		if err != nil {
			return StackMapFrame{}, err
		}
		return StackMapFrame{Kind: FrameSameLocalsExtended, FrameType: t, OffsetDelta: delta, Stack: stack}, nil

	case t >= 248 && t <= 250:
		delta, err := r.u2()
		if err != nil {
			return StackMapFrame{}, err
		}
		return StackMapFrame{Kind: FrameChop, FrameType: t, OffsetDelta: delta}, nil

	case t == 251:
		delta, err := r.u2()
		if err != nil {
			return StackMapFrame{}, err
		}
		return StackMapFrame{Kind: FrameSameExtended, FrameType: t, OffsetDelta: delta}, nil

	case t >= 252 && t <= 254:
		delta, err := r.u2()
		if err != nil {
			return StackMapFrame{}, err
		}
		locals, err := decodeVerificationList(r, int(t)-251)
		if err != nil {
			return StackMapFrame{}, err
		}
		return StackMapFrame{Kind: FrameAppend, FrameType: t, OffsetDelta: delta, Locals: locals}, nil

	case t == 255:
		delta, err := r.u2()
		if err != nil {
			return StackMapFrame{}, err
		}
		nLocals, err := r.u2()
		if err != nil {
			return StackMapFrame{}, err
		}
		locals, err := decodeVerificationList(r, int(nLocals))
		if err != nil {
			return StackMapFrame{}, err
		}
		nStack, err := r.u2()
		if err != nil {
			return StackMapFrame{}, err
		}
		stack, err := decodeVerificationList(r, int(nStack))
		if err != nil {
			return StackMapFrame{}, err
		}
		return StackMapFrame{Kind: FrameFull, FrameType: t, OffsetDelta: delta, Locals: locals, Stack: stack}, nil

	default:
		return StackMapFrame{}, newDecodeError(BadAttribute, "undefined StackMapTable frame type byte")
	}
}

func decodeVerificationList(r *reader, n int) ([]VerificationTypeInfo, error) {
	out := make([]VerificationTypeInfo, n)
	for i := range out {
		info, err := decodeVerificationTypeInfo(r)
		if err != nil {
			return nil, err
		}
		out[i] = info
	}
	return out, nil
}

func decodeVerificationTypeInfo(r *reader) (VerificationTypeInfo, error) {
	tagByte, err := r.u1()
	if err != nil {
		return VerificationTypeInfo{}, err
	}
	tag := VerificationTag(tagByte)
	switch tag {
	case VerificationObject, VerificationUninitialized:
		idx, err := r.u2()
		if err != nil {
			return VerificationTypeInfo{}, err
		}
		return VerificationTypeInfo{Tag: tag, Index: idx}, nil
	case VerificationTop, VerificationInteger, VerificationFloat, VerificationDouble,
		VerificationLong, VerificationNull, VerificationUninitializedThis:
		return VerificationTypeInfo{Tag: tag}, nil
	default:
		return VerificationTypeInfo{}, newDecodeError(BadAttribute, "undefined verification_type_info tag")
	}
}
